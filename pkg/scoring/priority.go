package scoring

import "math"

// Composite channel priority weights. They must sum to 100.
const (
	priorityWeightConversion = 40.0
	priorityWeightOrderValue = 30.0
	priorityWeightQuality    = 20.0
	priorityWeightVolume     = 10.0
)

// ChannelStats aggregates the lead table per channel.
type ChannelStats struct {
	Name           string  `json:"name" yaml:"name"`
	Leads          int     `json:"leads" yaml:"leads"`
	Enrolled       int     `json:"enrolled" yaml:"enrolled"`
	Revenue        float64 `json:"revenue" yaml:"revenue"`
	QualityLeads   int     `json:"quality_leads" yaml:"quality_leads"`
	ConversionRate float64 `json:"conversion_rate" yaml:"conversion_rate"`
}

// AvgOrderValue is revenue per enrollment, zero when nothing converted.
func (c ChannelStats) AvgOrderValue() float64 {
	if c.Enrolled == 0 {
		return 0
	}
	return c.Revenue / float64(c.Enrolled)
}

// QualityRate is the share of grade A/B leads.
func (c ChannelStats) QualityRate() float64 {
	if c.Leads == 0 {
		return 0
	}
	return float64(c.QualityLeads) / float64(c.Leads)
}

// ChannelPriorityResult is a channel's composite priority on a 0-100 scale.
type ChannelPriorityResult struct {
	ChannelStats `yaml:",inline"`
	AvgOrder     float64 `json:"avg_order_value" yaml:"avg_order_value"`
	Priority     float64 `json:"priority" yaml:"priority"`
}

// ChannelPriority computes a composite 0-100 priority per channel:
// conversion rate 40%, average order value 30%, quality-lead rate 20%,
// lead volume 10%, each normalized against the best channel. The result
// keeps the input order; callers sort as needed.
func ChannelPriority(stats []ChannelStats) []ChannelPriorityResult {
	var maxConv, maxOrder, maxQuality, maxLeads float64
	for _, c := range stats {
		maxConv = math.Max(maxConv, c.ConversionRate)
		maxOrder = math.Max(maxOrder, c.AvgOrderValue())
		maxQuality = math.Max(maxQuality, c.QualityRate())
		maxLeads = math.Max(maxLeads, float64(c.Leads))
	}

	results := make([]ChannelPriorityResult, len(stats))
	for i, c := range stats {
		p := ratio(c.ConversionRate, maxConv)*priorityWeightConversion +
			ratio(c.AvgOrderValue(), maxOrder)*priorityWeightOrderValue +
			ratio(c.QualityRate(), maxQuality)*priorityWeightQuality +
			ratio(float64(c.Leads), maxLeads)*priorityWeightVolume
		results[i] = ChannelPriorityResult{
			ChannelStats: c,
			AvgOrder:     c.AvgOrderValue(),
			Priority:     math.Round(p*10) / 10,
		}
	}
	return results
}

func ratio(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return v / max
}
