package domain

import "time"

// Client statuses as stored in the clients table and reported by the
// status endpoint. Unknown is never stored; it is the answer for
// identifiers that resolve to nothing.
const (
	ClientActive   = "active"
	ClientInactive = "inactive"
	ClientUnknown  = "unknown"
)

// Client represents a registered machine system allowed to call the API.
// Rows are provisioned out of band and are read-only here.
type Client struct {
	ID        int64     `json:"id"`
	SysName   string    `json:"sys_name"`
	Secret    []byte    `json:"-"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Client) IsActive() bool {
	return c != nil && c.Status == ClientActive
}
