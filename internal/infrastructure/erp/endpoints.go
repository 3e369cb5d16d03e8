package erp

// Entity set and action names exposed by the Business Central company API.
const (
	endpointOpenList     = "NewOpenSalesList_2"
	endpointPendingList  = "NewPendingSalesList2"
	endpointApprovedList = "NewApprovedSalesList2"
	endpointRejectedList = "NewRejectList"
	endpointHeaderDetail = "HeaderDetails"
	endpointSalesHeader  = "NewSalesHeader"
	endpointSalesLines   = "NewSalesLines"
	endpointSalesData    = "VivoSalesData"
	endpointProducts     = "vivoproducts"
	endpointSKUs         = "LubricantSKUs"
	endpointUsers        = "Vivousers"

	actionSubmit  = "SendRequestForApproval"
	actionReturn  = "ReturnBackToOpen"
	actionApprove = "ApproveRequest"
	actionReject  = "RejectRequest"
)
