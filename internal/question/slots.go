package question

// SlotPlan lists, for every slot, the buckets to draw from in priority order.
type SlotPlan [][]string

// TieredPlan builds a plan where slot i prefers tiers[i] and then falls back to the
// remaining distinct tiers in the order given by fallback.
func TieredPlan(tiers []string, fallback []string) SlotPlan {
	plan := make(SlotPlan, len(tiers))
	for i, tier := range tiers {
		order := []string{tier}
		for _, f := range fallback {
			if f != tier {
				order = append(order, f)
			}
		}
		plan[i] = order
	}
	return plan
}

// FlatPlan draws every slot from a single bucket.
func FlatPlan(bucket string, slots int) SlotPlan {
	plan := make(SlotPlan, slots)
	for i := range plan {
		plan[i] = []string{bucket}
	}
	return plan
}

// FillSlots takes one item per slot from the first non-empty bucket in that slot's
// priority list. Items are consumed from the front of each bucket, so callers order
// buckets by preference. ok is false when some slot could not be filled.
func FillSlots[T any](buckets map[string][]T, plan SlotPlan) (filled []T, ok bool) {
	remaining := make(map[string][]T, len(buckets))
	for k, v := range buckets {
		remaining[k] = v
	}

	filled = make([]T, 0, len(plan))
	for _, order := range plan {
		picked := false
		for _, bucket := range order {
			items := remaining[bucket]
			if len(items) == 0 {
				continue
			}
			filled = append(filled, items[0])
			remaining[bucket] = items[1:]
			picked = true
			break
		}
		if !picked {
			return filled, false
		}
	}
	return filled, true
}
