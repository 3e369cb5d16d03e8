package erp

import (
	"fmt"
	"net/url"
	"strings"
)

// escapeLiteral escapes a string literal for use inside an OData $filter
// expression. Single quotes double per the OData V4 ABNF.
func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// scopeFilter builds the region/outlet filter applied to every scoped list.
func scopeFilter(regionCode, outletCode string) string {
	return fmt.Sprintf("Region_Code eq '%s' and Outlet_Code eq '%s'",
		escapeLiteral(regionCode), escapeLiteral(outletCode))
}

// eqFilter builds a single-field equality filter.
func eqFilter(field, value string) string {
	return fmt.Sprintf("%s eq '%s'", field, escapeLiteral(value))
}

// listPath builds the request path for a filtered entity set.
func listPath(entitySet, filter string) string {
	query := url.Values{}
	query.Set("$filter", filter)
	return "/" + entitySet + "?" + query.Encode()
}

// linePath addresses a single sales line by its composite key.
func linePath(no string, sn int) string {
	return fmt.Sprintf("/%s(No='%s',SN=%d)", endpointSalesLines, escapeLiteral(no), sn)
}

// actionPath addresses a named ERP action.
func actionPath(action string) string {
	return "/" + action
}
