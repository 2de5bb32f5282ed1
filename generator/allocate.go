package generator

// Allocate splits targetBytes into numServices quotas. Every service gets
// targetBytes/numServices except the last, which also takes the remainder,
// so the quotas always sum to exactly targetBytes. Callers validate the
// inputs; a zero numServices returns nil.
func Allocate(targetBytes uint64, numServices int) []uint64 {
	if numServices < 1 {
		return nil
	}

	n := uint64(numServices)
	base := targetBytes / n

	quotas := make([]uint64, numServices)
	for i := range quotas {
		quotas[i] = base
	}
	quotas[numServices-1] = targetBytes - base*(n-1)

	return quotas
}
