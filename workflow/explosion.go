package workflow

import (
	"context"
	"time"

	"github.com/jwerthen/Werco-ERP-MES-sub001/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PlanningData is the per-run snapshot of part master and active BOMs.
// Reads happen once at run start; concurrent writes to the source
// tables are picked up by the next run, not this one.
type PlanningData struct {
	Parts map[int]*models.Part
	// Boms keys the single planning BOM by its parent part id.
	Boms map[int]*models.BillOfMaterial
}

// LoadPlanningData snapshots active parts and BOMs for one run. When a
// part somehow carries several active BOMs the lowest id wins.
func LoadPlanningData(tx *gorm.DB, ctx context.Context) (*PlanningData, error) {
	parts, err := models.GetActiveParts(tx, ctx)
	if err != nil {
		return nil, err
	}
	boms, err := models.GetActiveBOMs(tx, ctx)
	if err != nil {
		return nil, err
	}

	data := &PlanningData{
		Parts: make(map[int]*models.Part, len(parts)),
		Boms:  make(map[int]*models.BillOfMaterial, len(boms)),
	}
	for _, part := range parts {
		data.Parts[part.ID] = part
	}
	for _, bom := range boms {
		if _, exists := data.Boms[bom.PartId]; !exists {
			data.Boms[bom.PartId] = bom
		}
	}
	return data, nil
}

// ComponentRequirement is one exploded demand line for a component
// part, before aggregation.
type ComponentRequirement struct {
	PartId       int
	Quantity     decimal.Decimal
	RequiredDate time.Time
	BomLevel     int
	ItemType     models.BomItemType
}

// Planner walks the snapshot. Bad edges (missing component part,
// missing child BOM) are skipped and counted so one bad part cannot
// abort a run.
type Planner struct {
	data     *PlanningData
	logger   *logrus.Logger
	warnings int
}

func NewPlanner(data *PlanningData, logger *logrus.Logger) *Planner {
	return &Planner{data: data, logger: logger}
}

func (p *Planner) Warnings() int {
	return p.warnings
}

func (p *Planner) warn(funcName string, context string, fields logrus.Fields) {
	p.warnings++
	if p.logger != nil {
		p.logger.WithFields(fields).Warn(funcName + ": " + context)
	}
}

type explosionFrame struct {
	bom          *models.BillOfMaterial
	parentQty    decimal.Decimal
	requiredDate time.Time
	level        int
	// visited holds the BOM ids of the ancestors of this frame only.
	// Each descent copies the set, so sibling branches never inherit
	// each other's ids and a shared subassembly explodes once per
	// branch; only true back-edges are cut.
	visited map[int]bool
}

// ExplodeBOM expands a BOM into component requirements for the given
// parent quantity and required date. The BOM graph may contain cycles;
// a branch that would re-enter an ancestor BOM is truncated silently.
// Implemented as an explicit worklist so arbitrarily deep structures
// cannot exhaust the call stack.
func (p *Planner) ExplodeBOM(bomId int, parentQty decimal.Decimal, requiredDate time.Time, level int, visited map[int]bool) []ComponentRequirement {
	requirements := []ComponentRequirement{}

	root := p.bomById(bomId)
	if root == nil {
		p.warn("ExplodeBOM", "bom not found", logrus.Fields{"bomId": bomId})
		return requirements
	}
	if visited == nil {
		visited = map[int]bool{}
	}
	if visited[root.ID] {
		return requirements
	}

	one := decimal.NewFromInt(1)
	stack := []explosionFrame{{bom: root, parentQty: parentQty, requiredDate: requiredDate, level: level, visited: visited}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var children []explosionFrame
		for i := range frame.bom.Items {
			item := &frame.bom.Items[i]
			if (item.IsAlternate != nil && *item.IsAlternate) || (item.IsActive != nil && !*item.IsActive) {
				continue
			}
			component, ok := p.data.Parts[item.ComponentPartId]
			if !ok {
				p.warn("ExplodeBOM", "component part not found", logrus.Fields{
					"bomId":  frame.bom.ID,
					"partId": item.ComponentPartId,
				})
				continue
			}

			extendedQty := item.Quantity.Mul(frame.parentQty).Mul(one.Add(item.ScrapFactor))
			itemRequiredDate := frame.requiredDate.AddDate(0, 0, -item.LeadTimeOffsetDays)

			requirements = append(requirements, ComponentRequirement{
				PartId:       component.ID,
				Quantity:     extendedQty,
				RequiredDate: itemRequiredDate,
				BomLevel:     frame.level,
				ItemType:     item.ItemType,
			})

			if item.ItemType != models.BomItemTypeMake {
				continue
			}
			childBom, ok := p.data.Boms[component.ID]
			if !ok {
				// a Make item without its own BOM is just a leaf
				continue
			}

			branch := make(map[int]bool, len(frame.visited)+1)
			for id := range frame.visited {
				branch[id] = true
			}
			branch[frame.bom.ID] = true
			if branch[childBom.ID] {
				// cycle guard: terminate the branch, not the run
				continue
			}

			children = append(children, explosionFrame{
				bom:          childBom,
				parentQty:    extendedQty,
				requiredDate: itemRequiredDate.AddDate(0, 0, -component.LeadTimeDays),
				level:        frame.level + 1,
				visited:      branch,
			})
		}

		// push in reverse so subtrees expand in item order
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return requirements
}

func (p *Planner) bomById(bomId int) *models.BillOfMaterial {
	for _, bom := range p.data.Boms {
		if bom.ID == bomId {
			return bom
		}
	}
	return nil
}
