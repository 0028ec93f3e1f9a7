package tower

import "sort"

// ImbalanceKind discriminates the outcomes of DetectImbalance.
type ImbalanceKind int

const (
	KindBalanced ImbalanceKind = iota
	KindOdd
	KindUndiagnosable
)

func (k ImbalanceKind) String() string {
	switch k {
	case KindBalanced:
		return "balanced"
	case KindOdd:
		return "odd"
	case KindUndiagnosable:
		return "undiagnosable"
	}
	return "unknown"
}

// WeightGroup is the set of siblings sharing one total weight.
type WeightGroup struct {
	Weight int64    `json:"weight" yaml:"weight"`
	Count  int      `json:"count" yaml:"count"`
	Names  []string `json:"names" yaml:"names"`
}

// Imbalance is the verdict over one set of siblings. Odd and NormalWeight
// are only meaningful when Kind is KindOdd.
type Imbalance struct {
	Kind         ImbalanceKind
	Odd          Sibling
	NormalWeight int64
	Groups       []WeightGroup // sorted by weight
}

// DetectImbalance groups siblings by total weight. A single group is
// balanced. Two groups where exactly one has a single member name that
// member as the odd sibling. Anything else (a tie such as 2-vs-2, two
// lone siblings, or three or more distinct weights) is undiagnosable.
func DetectImbalance(siblings []Sibling) Imbalance {
	groups := groupByWeight(siblings)
	if len(groups) <= 1 {
		return Imbalance{Kind: KindBalanced, Groups: groups}
	}
	if len(groups) == 2 {
		a, b := groups[0], groups[1]
		switch {
		case a.Count == 1 && b.Count != 1:
			return Imbalance{Kind: KindOdd, Odd: Sibling{Name: a.Names[0], TotalWeight: a.Weight}, NormalWeight: b.Weight, Groups: groups}
		case b.Count == 1 && a.Count != 1:
			return Imbalance{Kind: KindOdd, Odd: Sibling{Name: b.Names[0], TotalWeight: b.Weight}, NormalWeight: a.Weight, Groups: groups}
		}
	}
	return Imbalance{Kind: KindUndiagnosable, Groups: groups}
}

func groupByWeight(siblings []Sibling) []WeightGroup {
	idx := make(map[int64]int)
	var groups []WeightGroup
	for _, s := range siblings {
		i, ok := idx[s.TotalWeight]
		if !ok {
			i = len(groups)
			idx[s.TotalWeight] = i
			groups = append(groups, WeightGroup{Weight: s.TotalWeight})
		}
		groups[i].Count++
		groups[i].Names = append(groups[i].Names, s.Name)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Weight < groups[j].Weight })
	return groups
}
