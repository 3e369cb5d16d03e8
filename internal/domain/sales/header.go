package sales

// Status is the approval status of a sales header. The ERP owns the
// transition rules; this type only reproduces the graph so the UI can
// decide which actions to offer.
type Status string

const (
	StatusOpen     Status = "Open"
	StatusPending  Status = "Pending Approval"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// CanSubmit reports whether a submit-for-approval action makes sense.
func (s Status) CanSubmit() bool {
	return s == StatusOpen
}

// CanApprove reports whether an approve action makes sense.
func (s Status) CanApprove() bool {
	return s == StatusPending
}

// CanReject reports whether a reject action makes sense.
func (s Status) CanReject() bool {
	return s == StatusPending
}

// CanReturn reports whether a return-to-open action makes sense.
func (s Status) CanReturn() bool {
	return s == StatusPending
}

// IsTerminal reports whether no further action is available from this client.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Header is a sales header row as returned by the ERP. All monetary and
// target fields are server-computed; the client never derives them.
// ETag is the concurrency token presented on conditional writes.
type Header struct {
	ETag                  string  `json:"@odata.etag"`
	No                    string  `json:"No"`
	DateCaptured          string  `json:"Date_Captured"`
	TimeCaptured          string  `json:"Time_Captured"`
	SalesDate             string  `json:"Sales_Date"`
	RegionCode            string  `json:"Region_Code"`
	RegionName            string  `json:"Region_Name"`
	OutletCode            string  `json:"Outlet_Code"`
	OutletName            string  `json:"Outlet_Name"`
	TotalTarget           float64 `json:"Total_Target"`
	TotalAchieved         float64 `json:"Total_Achieved"`
	TotalCommissionEarned float64 `json:"Total_Commission_Earned"`
	Status                Status  `json:"Status"`
}

// Overview is a row of the region-wide sales summary (VivoSalesData).
type Overview struct {
	ETag                  string  `json:"@odata.etag"`
	No                    string  `json:"No"`
	SalesDate             string  `json:"Sales_Date"`
	SalesTime             string  `json:"Sales_Time"`
	CapturedBy            string  `json:"Captured_By"`
	RegionCode            string  `json:"Region_Code"`
	RegionName            string  `json:"Region_Name"`
	OutletCode            string  `json:"Outlet_Code"`
	OutletName            string  `json:"Outlet_Name"`
	SalesDescription      string  `json:"Sales_Description"`
	TotalSalesInLiters    float64 `json:"Total_Sales_in_Liters"`
	TotalCommissionLiters float64 `json:"Total_Commission_Liters"`
	TotalCommissionValue  float64 `json:"Total_Commission_Value"`
	TotalTarget           float64 `json:"Total_Target"`
	Status                Status  `json:"Status"`
	ActualDate            string  `json:"Actual_Date"`
}

// ActionResult is the transient value returned by the ERP's approval
// actions. It identifies the affected record and is not persisted.
type ActionResult struct {
	SN   int    `json:"SN"`
	Code string `json:"Code"`
}
