// Package record defines the fixed-width customer record and its binary codec.
//
// Every record occupies exactly RecordSize bytes on disk: a little-endian
// int32 id followed by eight zero-padded text slots. A slot is one byte wider
// than the longest value it holds, so each stored value is always followed by
// at least one zero byte.
package record

// FieldCount is the number of CSV columns that make up one customer.
const FieldCount = 9

// Maximum stored length of each text field, excluding the terminator byte.
const (
	MaxFirstName = 49
	MaxLastName  = 49
	MaxEmail     = 99
	MaxPhone     = 19
	MaxCity      = 49
	MaxState     = 2
	MaxZip       = 9
	MaxDate      = 10
)

// RecordSize is the on-disk size of one encoded Customer.
const RecordSize = 4 +
	(MaxFirstName + 1) + (MaxLastName + 1) + (MaxEmail + 1) + (MaxPhone + 1) +
	(MaxCity + 1) + (MaxState + 1) + (MaxZip + 1) + (MaxDate + 1)

// Customer is one converted row.
type Customer struct {
	ID               int32
	FirstName        Text
	LastName         Text
	Email            Text
	Phone            Text
	City             Text
	State            Text
	ZipCode          Text
	RegistrationDate Text
}

// Fields returns the CSV column names in input order.
func Fields() []string {
	return []string{
		"customer_id", "first_name", "last_name", "email", "phone",
		"city", "state", "zip_code", "registration_date",
	}
}

type slot struct {
	name string
	max  int
	get  func(*Customer) *Text
}

// slots lists the text fields in on-disk order.
var slots = []slot{
	{"first_name", MaxFirstName, func(c *Customer) *Text { return &c.FirstName }},
	{"last_name", MaxLastName, func(c *Customer) *Text { return &c.LastName }},
	{"email", MaxEmail, func(c *Customer) *Text { return &c.Email }},
	{"phone", MaxPhone, func(c *Customer) *Text { return &c.Phone }},
	{"city", MaxCity, func(c *Customer) *Text { return &c.City }},
	{"state", MaxState, func(c *Customer) *Text { return &c.State }},
	{"zip_code", MaxZip, func(c *Customer) *Text { return &c.ZipCode }},
	{"registration_date", MaxDate, func(c *Customer) *Text { return &c.RegistrationDate }},
}

// Map exposes the record as a name/value map, with customer_id as int64.
func (c Customer) Map() map[string]any {
	m := make(map[string]any, FieldCount)
	m["customer_id"] = int64(c.ID)
	for _, s := range slots {
		m[s.name] = s.get(&c).String()
	}
	return m
}
