package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwerthen/Werco-ERP-MES-sub001/models"
	"github.com/jwerthen/Werco-ERP-MES-sub001/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VendorResolver finds a supplier for a part. Resolvers are tried in
// priority order until one succeeds; ErrorRecordNotFound means "try
// the next one".
type VendorResolver interface {
	ResolveVendor(tx *gorm.DB, ctx context.Context, partId int) (*models.Supplier, error)
}

// mappedSupplierResolver wins when an explicit supplier-part mapping
// exists. The mapping outranks purchase history.
type mappedSupplierResolver struct{}

func (mappedSupplierResolver) ResolveVendor(tx *gorm.DB, ctx context.Context, partId int) (*models.Supplier, error) {
	return models.GetMappedSupplierForPart(tx, ctx, partId)
}

// purchaseHistoryResolver picks the vendor the part was bought from
// most often.
type purchaseHistoryResolver struct{}

func (purchaseHistoryResolver) ResolveVendor(tx *gorm.DB, ctx context.Context, partId int) (*models.Supplier, error) {
	return models.GetMostFrequentSupplierForPart(tx, ctx, partId)
}

// firstActiveSupplierResolver is the fallback of last resort.
type firstActiveSupplierResolver struct{}

func (firstActiveSupplierResolver) ResolveVendor(tx *gorm.DB, ctx context.Context, partId int) (*models.Supplier, error) {
	return models.GetFirstActiveSupplier(tx, ctx)
}

func defaultVendorResolvers() []VendorResolver {
	return []VendorResolver{
		mappedSupplierResolver{},
		purchaseHistoryResolver{},
		firstActiveSupplierResolver{},
	}
}

func resolveVendor(tx *gorm.DB, ctx context.Context, resolvers []VendorResolver, partId int) (*models.Supplier, error) {
	for _, resolver := range resolvers {
		supplier, err := resolver.ResolveVendor(tx, ctx, partId)
		if err == nil {
			return supplier, nil
		}
		if !errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("no vendor resolvable for part %d", partId)
}

// CostResolver finds a unit cost for a supplier/part pair, same
// contract as VendorResolver.
type CostResolver interface {
	ResolveUnitCost(tx *gorm.DB, ctx context.Context, supplierId int, partId int) (decimal.Decimal, error)
}

// latestPurchasePriceResolver uses the most recent purchase of the
// part from that vendor.
type latestPurchasePriceResolver struct{}

func (latestPurchasePriceResolver) ResolveUnitCost(tx *gorm.DB, ctx context.Context, supplierId int, partId int) (decimal.Decimal, error) {
	return models.GetLatestPurchasePrice(tx, ctx, supplierId, partId)
}

// standardCostResolver falls back to the part master's standard cost.
type standardCostResolver struct{}

func (standardCostResolver) ResolveUnitCost(tx *gorm.DB, ctx context.Context, supplierId int, partId int) (decimal.Decimal, error) {
	part, err := models.GetPart(tx, ctx, partId)
	if err != nil {
		return decimal.Zero, err
	}
	if !part.StandardCost.IsPositive() {
		return decimal.Zero, utils.ErrorRecordNotFound
	}
	return part.StandardCost, nil
}

func defaultCostResolvers() []CostResolver {
	return []CostResolver{
		latestPurchasePriceResolver{},
		standardCostResolver{},
	}
}

// resolveUnitCost never fails: when every strategy comes up empty the
// cost is zero and the caller is expected to have logged a warning via
// the returned flag.
func resolveUnitCost(tx *gorm.DB, ctx context.Context, resolvers []CostResolver, supplierId int, partId int) (decimal.Decimal, bool, error) {
	for _, resolver := range resolvers {
		cost, err := resolver.ResolveUnitCost(tx, ctx, supplierId, partId)
		if err == nil {
			return cost, true, nil
		}
		if !errors.Is(err, utils.ErrorRecordNotFound) {
			return decimal.Zero, false, err
		}
	}
	return decimal.Zero, false, nil
}
