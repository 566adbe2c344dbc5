package irt

// SelectNextItem returns the unused item with maximum information at theta.
// Ties go to the earlier item in items. Returns false when every item has
// been used.
func SelectNextItem(theta float64, items []ItemParameters, used map[string]bool) (ItemParameters, bool) {
	var (
		best     ItemParameters
		bestInfo = -1.0
		found    bool
	)
	for _, it := range items {
		if used[it.ItemID] {
			continue
		}
		info := ItemInformation(theta, it)
		if info > bestInfo {
			best, bestInfo, found = it, info, true
		}
	}
	return best, found
}
