package identity

import "context"

// User is a Business Central user record from the Vivousers table.
// The ERP stores the password in the clear and the comparison happens in
// this client; that contract is owned by the backend.
type User struct {
	ETag             string  `json:"@odata.etag"`
	Username         string  `json:"Bitsn_UserName"`
	UserID           string  `json:"User_ID"`
	Name             string  `json:"Name"`
	RoleID           string  `json:"Role_ID"`
	RoleName         string  `json:"Role_Name"`
	PhoneNumber      string  `json:"Phone_Number"`
	EmailAddress     string  `json:"Email_Address"`
	RegionCode       string  `json:"Region_Code"`
	RegionName       string  `json:"Region_Name"`
	OutletCode       string  `json:"Outlet_Code"`
	OutletName       string  `json:"Outlet_Name"`
	Password         string  `json:"Password"`
	MultiplierFactor float64 `json:"Multiplierfactor"`
	UserTarget       float64 `json:"User_target"`
	Enabled          bool    `json:"Enabled"`
}

// Session is the resolved identity of the current request. RegionCode and
// OutletCode scope every list query; Token is the opaque credential the
// client presents on subsequent requests.
type Session struct {
	Username   string `json:"username"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Region     string `json:"region"`
	RegionCode string `json:"region_code"`
	Outlet     string `json:"outlet"`
	OutletCode string `json:"outlet_code"`
	Token      string `json:"token,omitempty"`
}

// UserRepository looks up users in the ERP's user table.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
}
