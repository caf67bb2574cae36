package domain

// ProductGroup collapses size/color/variant hits sharing a group identifier
// into one display card: a representative hit plus its sibling hits.
type ProductGroup struct {
	GroupID        string       `json:"groupId"`
	Representative ProductHit   `json:"representative"`
	Siblings       []ProductHit `json:"siblings"`
}

// GroupProducts collapses a flat hit list into ordered variant groups.
// The first hit seen for a group identifier becomes the representative and
// anchors the group's position; later hits with the same identifier are
// appended as siblings without moving the group. A hit without a group
// identifier forms a singleton group keyed by its own product id.
// Pure function of the input: same list in, same groups out.
func GroupProducts(hits []ProductHit) []ProductGroup {
	groups := make([]ProductGroup, 0, len(hits))
	index := make(map[string]int, len(hits))

	for _, hit := range hits {
		key := hit.GroupID
		if key == "" {
			key = hit.ProductID
		}

		if i, seen := index[key]; seen {
			groups[i].Siblings = append(groups[i].Siblings, hit)
			continue
		}

		index[key] = len(groups)
		groups = append(groups, ProductGroup{
			GroupID:        key,
			Representative: hit,
			Siblings:       []ProductHit{},
		})
	}

	return groups
}
