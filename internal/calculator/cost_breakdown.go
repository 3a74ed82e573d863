package calculator

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type CostCategory int

const (
	CostEnergy CostCategory = iota
	CostSeeds
	CostSubstrate
	CostNutrients
	CostOther

	numCostCategories
)

var costCategoryLabels = [numCostCategories]string{
	CostEnergy:    "Energia Elétrica",
	CostSeeds:     "Sementes/Clones",
	CostSubstrate: "Substrato",
	CostNutrients: "Nutrientes",
	CostOther:     "Outros Custos",
}

func (c CostCategory) String() string {
	if c < 0 || c >= numCostCategories {
		return fmt.Sprintf("CostCategory(%d)", int(c))
	}
	return costCategoryLabels[c]
}

// CostCategories lists every category in presentation order.
func CostCategories() []CostCategory {
	out := make([]CostCategory, 0, numCostCategories)
	for c := CostCategory(0); c < numCostCategories; c++ {
		out = append(out, c)
	}
	return out
}

func ParseCostCategory(label string) (CostCategory, error) {
	for c, l := range costCategoryLabels {
		if l == label {
			return CostCategory(c), nil
		}
	}
	return 0, fmt.Errorf("unknown cost category %q", label)
}

// CostBreakdown maps every category to an amount. It serializes as a JSON
// object keyed by the category labels, in category order.
type CostBreakdown [numCostCategories]float64

func (b CostBreakdown) Get(c CostCategory) float64 {
	return b[c]
}

func (b CostBreakdown) Total() float64 {
	total := 0.0
	for _, v := range b {
		total += v
	}
	return total
}

func (b CostBreakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(costCategoryLabels[i])
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b *CostBreakdown) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out CostBreakdown
	for label, v := range raw {
		c, err := ParseCostCategory(label)
		if err != nil {
			return err
		}
		out[c] = v
	}
	*b = out
	return nil
}
