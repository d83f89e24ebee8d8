package workflow

import (
	"sort"
	"time"

	"github.com/jwerthen/Werco-ERP-MES-sub001/models"
	"github.com/jwerthen/Werco-ERP-MES-sub001/utils"
	"github.com/shopspring/decimal"
)

// SourceContribution records which demand fed a requirement bucket and
// how much, for traceability. Order of contributions is kept as seen;
// it carries no planning meaning.
type SourceContribution struct {
	ProductionOrderId int             `json:"production_order_id"`
	OrderNumber       string          `json:"order_number"`
	Quantity          decimal.Decimal `json:"quantity"`
}

// RequirementBucket is the day-granular total for one part/date.
type RequirementBucket struct {
	Date     time.Time
	Quantity decimal.Decimal
	// BomLevel is the shallowest level that contributed to the bucket.
	BomLevel int
	Sources  []SourceContribution
}

// PartRequirements is everything the netting stage needs for one part.
type PartRequirements struct {
	PartId  int
	Total   decimal.Decimal
	buckets map[int64]*RequirementBucket
}

// SortedBuckets returns the part's buckets in ascending date order.
// Netting depends on this ordering: earlier need consumes supply first.
func (pr *PartRequirements) SortedBuckets() []*RequirementBucket {
	keys := make([]int64, 0, len(pr.buckets))
	for key := range pr.buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	buckets := make([]*RequirementBucket, 0, len(keys))
	for _, key := range keys {
		buckets = append(buckets, pr.buckets[key])
	}
	return buckets
}

// Aggregator merges the exploded requirement stream by part and date
// bucket. Two requirements for the same part/date sum, never
// overwrite.
type Aggregator struct {
	parts map[int]*PartRequirements
	order []int
}

func NewAggregator() *Aggregator {
	return &Aggregator{parts: make(map[int]*PartRequirements)}
}

// Add folds one demand's exploded requirements into the totals.
func (a *Aggregator) Add(demand models.DemandLine, requirements []ComponentRequirement) {
	for _, req := range requirements {
		pr, ok := a.parts[req.PartId]
		if !ok {
			pr = &PartRequirements{
				PartId:  req.PartId,
				buckets: make(map[int64]*RequirementBucket),
			}
			a.parts[req.PartId] = pr
			a.order = append(a.order, req.PartId)
		}

		key := utils.DayKey(req.RequiredDate)
		bucket, ok := pr.buckets[key]
		if !ok {
			bucket = &RequirementBucket{
				Date:     utils.TruncateToDay(req.RequiredDate),
				Quantity: decimal.Zero,
				BomLevel: req.BomLevel,
			}
			pr.buckets[key] = bucket
		}

		bucket.Quantity = bucket.Quantity.Add(req.Quantity)
		if req.BomLevel < bucket.BomLevel {
			bucket.BomLevel = req.BomLevel
		}
		bucket.Sources = append(bucket.Sources, SourceContribution{
			ProductionOrderId: demand.ProductionOrderId,
			OrderNumber:       demand.OrderNumber,
			Quantity:          req.Quantity,
		})
		pr.Total = pr.Total.Add(req.Quantity)
	}
}

// Parts returns per-part requirements in first-appearance order, which
// is deterministic for a given demand snapshot.
func (a *Aggregator) Parts() []*PartRequirements {
	parts := make([]*PartRequirements, 0, len(a.order))
	for _, partId := range a.order {
		parts = append(parts, a.parts[partId])
	}
	return parts
}
