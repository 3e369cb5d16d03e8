package sales

// Line is a single product/SKU/quantity entry within a sales header,
// identified by (No, SN). Target, SKULiters, Grade, Total, SKURatio and
// CommissionEarned are recomputed by the ERP on every patch; the response
// body is authoritative and replaces the cached line wholesale.
type Line struct {
	ETag             string  `json:"@odata.etag"`
	No               string  `json:"No"`
	SN               int     `json:"SN"`
	OfficerName      string  `json:"Officer_Name"`
	RoleName         string  `json:"Role_Name"`
	ProductCode      string  `json:"Product_Code"`
	Target           float64 `json:"Target"`
	SKUCode          string  `json:"SKU_Code"`
	SKULiters        float64 `json:"SKU_Liters"`
	Grade            string  `json:"Grade"`
	Quantity         float64 `json:"Quantity"`
	Total            float64 `json:"Total"`
	SKURatio         float64 `json:"SKU_Ratio"`
	CommissionEarned float64 `json:"Commission_Earned"`
}

// LinePatch carries the editable fields of a line. Only non-nil fields are
// sent; the ERP recomputes every dependent column server-side.
type LinePatch struct {
	ProductCode *string
	SKUCode     *string
	Quantity    *float64
}

// IsEmpty reports whether the patch would send no fields at all.
func (p LinePatch) IsEmpty() bool {
	return p.ProductCode == nil && p.SKUCode == nil && p.Quantity == nil
}

// Fields renders the patch as the OData PATCH body, keyed by the ERP's
// column names.
func (p LinePatch) Fields() map[string]any {
	fields := make(map[string]any, 3)
	if p.ProductCode != nil {
		fields["Product_Code"] = *p.ProductCode
	}
	if p.SKUCode != nil {
		fields["SKU_Code"] = *p.SKUCode
	}
	if p.Quantity != nil {
		fields["Quantity"] = *p.Quantity
	}
	return fields
}
