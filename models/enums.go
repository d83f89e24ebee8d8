package models

type PartType string

const (
	PartTypeManufactured PartType = "Manufactured"
	PartTypePurchased    PartType = "Purchased"
	PartTypeAssembly     PartType = "Assembly"
	PartTypeRawMaterial  PartType = "RawMaterial"
	PartTypeHardware     PartType = "Hardware"
	PartTypeConsumable   PartType = "Consumable"
)

// IsProcured reports whether shortages of this part type are covered by
// purchasing rather than the shop floor.
func (t PartType) IsProcured() bool {
	switch t {
	case PartTypePurchased, PartTypeRawMaterial, PartTypeHardware, PartTypeConsumable:
		return true
	}
	return false
}

type BomItemType string

const (
	BomItemTypeMake BomItemType = "Make"
	BomItemTypeBuy  BomItemType = "Buy"
)

type MRPRunStatus string

const (
	MRPRunStatusRunning  MRPRunStatus = "Running"
	MRPRunStatusComplete MRPRunStatus = "Complete"
	MRPRunStatusError    MRPRunStatus = "Error"
)

type MRPActionType string

const (
	MRPActionTypeOrder       MRPActionType = "Order"
	MRPActionTypeManufacture MRPActionType = "Manufacture"
	MRPActionTypeExpedite    MRPActionType = "Expedite"
)

type MRPProcessingMode string

const (
	MRPProcessingModeReview     MRPProcessingMode = "Review"
	MRPProcessingModeAutoDraft  MRPProcessingMode = "AutoDraft"
	MRPProcessingModeAutoSubmit MRPProcessingMode = "AutoSubmit"
)

type ProductionOrderStatus string

const (
	ProductionOrderStatusOpen       ProductionOrderStatus = "Open"
	ProductionOrderStatusInProgress ProductionOrderStatus = "InProgress"
	ProductionOrderStatusComplete   ProductionOrderStatus = "Complete"
	ProductionOrderStatusCancelled  ProductionOrderStatus = "Cancelled"
)

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "Draft"
	PurchaseOrderStatusIssued    PurchaseOrderStatus = "Issued"
	PurchaseOrderStatusClosed    PurchaseOrderStatus = "Closed"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "Cancelled"
)

type WorkOrderStatus string

const (
	WorkOrderStatusDraft      WorkOrderStatus = "Draft"
	WorkOrderStatusReleased   WorkOrderStatus = "Released"
	WorkOrderStatusInProgress WorkOrderStatus = "InProgress"
	WorkOrderStatusComplete   WorkOrderStatus = "Complete"
	WorkOrderStatusCancelled  WorkOrderStatus = "Cancelled"
)

type NotificationType string

const (
	NotificationTypeMrpExpedite NotificationType = "MrpExpedite"
	NotificationTypeMrpWarning  NotificationType = "MrpWarning"
)
