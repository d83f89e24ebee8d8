package workflow

import (
	"encoding/json"
	"time"

	"github.com/jwerthen/Werco-ERP-MES-sub001/models"
	"github.com/jwerthen/Werco-ERP-MES-sub001/utils"
	"github.com/shopspring/decimal"
)

// ClassifyAction decides what kind of action covers a shortage. Pure:
// no database, no clock. A suggested order date already in the past
// overrides the part-type decision, escalates to Expedite and clamps
// the date to today. Priority 1 is more urgent than 5.
func ClassifyAction(partType models.PartType, suggestedOrderDate time.Time, today time.Time) (models.MRPActionType, time.Time, int) {
	if suggestedOrderDate.Before(today) {
		return models.MRPActionTypeExpedite, today, 1
	}
	if partType.IsProcured() {
		return models.MRPActionTypeOrder, suggestedOrderDate, 5
	}
	return models.MRPActionTypeManufacture, suggestedOrderDate, 5
}

// NetPartRequirements nets one part's date buckets, earliest first,
// against its inventory snapshot. The running-available accumulator is
// threaded explicitly through the fold: satisfied demand still
// consumes forward supply, which is why the bucket ordering is
// load-bearing. Returned rows carry no run id yet; the orchestrator
// tags them before the final commit.
func NetPartRequirements(part *models.Part, inventory *models.InventoryLevel, pr *PartRequirements,
	includeSafetyStock bool, includeAllocated bool, today time.Time) ([]models.MRPRequirement, []models.MRPAction) {

	available := inventory.QtyOnHand
	if includeAllocated {
		available = available.Sub(inventory.QtyAllocated)
	}
	runningAvailable := available.Add(inventory.QtyOnOrder)

	safetyComponent := decimal.Zero
	if includeSafetyStock {
		safetyComponent = part.SafetyStock
	}

	var requirements []models.MRPRequirement
	var actions []models.MRPAction

	for _, bucket := range pr.SortedBuckets() {
		shortage := bucket.Quantity.Add(safetyComponent).Sub(runningAvailable)
		if shortage.IsNegative() {
			shortage = decimal.Zero
		}
		postAvailable := runningAvailable.Sub(bucket.Quantity)

		sources, _ := json.Marshal(bucket.Sources)
		requirements = append(requirements, models.MRPRequirement{
			PartId:       part.ID,
			RequiredDate: bucket.Date,
			BomLevel:     bucket.BomLevel,
			QtyRequired:  bucket.Quantity,
			QtyOnHand:    inventory.QtyOnHand,
			QtyAllocated: inventory.QtyAllocated,
			QtyOnOrder:   inventory.QtyOnOrder,
			QtyAvailable: postAvailable,
			QtyShortage:  shortage,
			Sources:      string(sources),
		})

		if shortage.IsPositive() {
			suggested := bucket.Date.AddDate(0, 0, -part.LeadTimeDays)
			actionType, orderDate, priority := ClassifyAction(part.PartType, suggested, today)
			actions = append(actions, models.MRPAction{
				PartId:             part.ID,
				ActionType:         actionType,
				Priority:           priority,
				Quantity:           shortage,
				RequiredDate:       bucket.Date,
				SuggestedOrderDate: utils.TruncateToDay(orderDate),
			})
		}

		runningAvailable = postAvailable
	}

	return requirements, actions
}
