// Package schema describes the known Practice Management System export layouts
// and detects which one an input table uses.
package schema

import "fmt"

// Vendor names.
const (
	VETport = "VETport"
	Xpress  = "Xpress"
	EzyVet  = "ezyVet"
)

// FieldMap names the vendor columns that hold each canonical field.
// Exactly one of Client or the ClientFirst/ClientLast pair is set.
type FieldMap struct {
	Date        string
	Client      string
	ClientFirst string
	ClientLast  string
	Animal      string
	Item        string
	Qty         string
}

// SplitClient reports whether the client name is spread over first/last columns.
func (m FieldMap) SplitClient() bool {
	return m.Client == ""
}

// Vendor is a registered export layout.
type Vendor struct {
	Name     string
	Required []string
	Fields   FieldMap
}

// Validate checks that the field map names exactly one client form and that
// every mapped column is among the required ones.
func (v Vendor) Validate() error {
	f := v.Fields
	hasSingle := f.Client != ""
	hasPair := f.ClientFirst != "" || f.ClientLast != ""
	if hasSingle == hasPair {
		return fmt.Errorf("vendor %s: exactly one of client or client_first/client_last must be set", v.Name)
	}
	if hasPair && (f.ClientFirst == "" || f.ClientLast == "") {
		return fmt.Errorf("vendor %s: client_first and client_last must both be set", v.Name)
	}

	required := make(map[string]bool, len(v.Required))
	for _, r := range NormalizeAll(v.Required) {
		required[r] = true
	}
	for _, col := range []string{f.Date, f.Client, f.ClientFirst, f.ClientLast, f.Animal, f.Item, f.Qty} {
		if col == "" {
			continue
		}
		if !required[Normalize(col)] {
			return fmt.Errorf("vendor %s: mapped column %q is not required", v.Name, col)
		}
	}
	return nil
}

// Vendors is the registry in detection order.
var Vendors = []Vendor{
	{
		Name: VETport,
		Required: []string{
			"Planitem Performed", "Client Name", "Patient Name", "Plan Item Name", "Plan Item Quantity",
		},
		Fields: FieldMap{
			Date:   "Planitem Performed",
			Client: "Client Name",
			Animal: "Patient Name",
			Item:   "Plan Item Name",
			Qty:    "Plan Item Quantity",
		},
	},
	{
		Name:     Xpress,
		Required: []string{"Date", "Client Name", "Animal Name", "Item Name", "Qty"},
		Fields: FieldMap{
			Date:   "Date",
			Client: "Client Name",
			Animal: "Animal Name",
			Item:   "Item Name",
			Qty:    "Qty",
		},
	},
	{
		Name:     EzyVet,
		Required: []string{"Invoice Date", "First Name", "Last Name", "Patient Name", "Product Name", "Qty"},
		Fields: FieldMap{
			Date:        "Invoice Date",
			ClientFirst: "First Name",
			ClientLast:  "Last Name",
			Animal:      "Patient Name",
			Item:        "Product Name",
			Qty:         "Qty",
		},
	},
}

// Lookup returns the registered vendor with the given name.
func Lookup(name string) (Vendor, bool) {
	for _, v := range Vendors {
		if v.Name == name {
			return v, true
		}
	}
	return Vendor{}, false
}
