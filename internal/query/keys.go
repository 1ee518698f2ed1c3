package query

import (
	"fmt"
	"strconv"
)

// Resource namespaces. Mutations invalidate by these names, so every key
// for a resource must be built with the same constant.
const (
	ResourceProducts  = "products"
	ResourceLoyalties = "loyalties"
	ResourceCustomers = "customers"
	ResourceSettings  = "settings"
	ResourceOrderLogs = "order-logs"
	ResourceDashboard = "dashboard"
)

// ListKey builds the cache key for one page of a filtered listing.
func ListKey(resource string, page int, search string, extra ...string) Key {
	params := append([]string{
		"page=" + strconv.Itoa(page),
		"search=" + search,
	}, extra...)
	return NewKey(resource, params...)
}

// RecordKey builds the cache key for a single record read.
func RecordKey(resource string, id int64) Key {
	return NewKey(resource, fmt.Sprintf("id=%d", id))
}

// SettingKey builds the cache key for a settings entry.
func SettingKey(key string) Key {
	return NewKey(ResourceSettings, "key="+key)
}
