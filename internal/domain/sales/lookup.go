package sales

// Product is a catalog entry from the vivoproducts lookup.
type Product struct {
	ETag           string  `json:"@odata.etag"`
	Code           string  `json:"Code"`
	Description    string  `json:"Description"`
	CommissionRate float64 `json:"Commission_Rate"`
}

// SKU is a lubricant SKU from the LubricantSKUs lookup.
type SKU struct {
	ETag           string  `json:"@odata.etag"`
	SKUCode        string  `json:"SKU_Code"`
	SKUName        string  `json:"SKU_Name"`
	SKULitres      float64 `json:"SKU_Litres"`
	Grade          string  `json:"Grade"`
	IncentiveRatio float64 `json:"Incentive_Ratio"`
}
