package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type documentFields struct {
	Phone   string `validate:"omitempty,in_phone"`
	Pincode string `validate:"omitempty,in_pincode"`
	GST     string `validate:"omitempty,gstin"`
	PAN     string `validate:"omitempty,pan"`
}

func TestIndianDocumentFormats(t *testing.T) {
	cases := []struct {
		name  string
		input documentFields
		valid bool
	}{
		{"all empty", documentFields{}, true},
		{"valid phone", documentFields{Phone: "9876543210"}, true},
		{"phone too short", documentFields{Phone: "98765"}, false},
		{"phone bad leading digit", documentFields{Phone: "1876543210"}, false},
		{"valid pincode", documentFields{Pincode: "400001"}, true},
		{"pincode leading zero", documentFields{Pincode: "040001"}, false},
		{"valid gstin", documentFields{GST: "27AAPFU0939F1ZV"}, true},
		{"gstin lowercase", documentFields{GST: "27aapfu0939f1zv"}, false},
		{"gstin wrong checksum slot", documentFields{GST: "27AAPFU0939F1XV"}, false},
		{"valid pan", documentFields{PAN: "AAPFU0939F"}, true},
		{"pan digits misplaced", documentFields{PAN: "AAPF90939F"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validator().Struct(tc.input)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
