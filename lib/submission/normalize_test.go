package submission

import (
	"testing"

	"jetcargo-backend/lib/form"

	"github.com/google/go-cmp/cmp"
	"github.com/mazen160/go-random"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		fields   []form.Field
		expected Submission
	}{
		{
			name:   "value shaped email",
			fields: []form.Field{{Name: "q1", Value: "jane@x.com"}},
			expected: Submission{
				"q1":    "jane@x.com",
				"email": "jane@x.com",
			},
		},
		{
			name: "site builder form",
			fields: []form.Field{
				{Name: "dmform-0", Value: "Jane Doe", Type: "text"},
				{Name: "dmform-1", Value: "jane@example.com", Type: "email"},
				{Name: "dmform-2", Value: "+1 (305) 555-0100", Type: "tel"},
				{Name: "dmform-3", Value: "  ", Type: "text"},
				{Name: "dmform-4", Value: "Two pallets to Bogotá", Type: "textarea"},
			},
			expected: Submission{
				"dmform-0": "Jane Doe",
				"dmform-1": "jane@example.com",
				"dmform-2": "+1 (305) 555-0100",
				"dmform-4": "Two pallets to Bogotá",
				"name":     "Jane Doe",
				"email":    "jane@example.com",
				"phone":    "+1 (305) 555-0100",
			},
		},
		{
			name: "named fields",
			fields: []form.Field{
				{Name: "Nombre", Value: "Carlos", Type: "text"},
				{Name: "Correo", Value: "carlos at example", Type: "text"},
				{Name: "company_name", Value: "Acme Freight", Type: "text"},
				{Name: "origin", Value: "Miami", Type: "text"},
				{Name: "destino", Value: "Caracas", Type: "text"},
				{Name: "fragile", Value: "on", Type: "checkbox"},
				{Name: "Hazardous", Value: "on", Type: "checkbox"},
			},
			expected: Submission{
				"Nombre":            "Carlos",
				"Correo":            "carlos at example",
				"company_name":      "Acme Freight",
				"origin":            "Miami",
				"destino":           "Caracas",
				"fragile":           "on",
				"Hazardous":         "on",
				"name":              "Carlos",
				"email":             "carlos at example",
				"company":           "Acme Freight",
				"shipping_origin":   "Miami",
				"final_destination": "Caracas",
				"special_handling":  "Fragile, Hazardous",
			},
		},
		{
			name: "named phone field wins over the first candidate",
			fields: []form.Field{
				{Name: "zip", Value: "3310 2251", Type: "text"},
				{Name: "mobile_tel", Value: "786-555-0199", Type: "tel"},
			},
			expected: Submission{
				"zip":        "3310 2251",
				"mobile_tel": "786-555-0199",
				"phone":      "786-555-0199",
			},
		},
		{
			name: "shape beats name",
			fields: []form.Field{
				{Name: "full_name", Value: "3055550100", Type: "text"},
				{Name: "contact", Value: "Ana", Type: "text"},
			},
			expected: Submission{
				"full_name": "3055550100",
				"contact":   "Ana",
				"phone":     "3055550100",
				"name":      "Ana",
			},
		},
		{
			name: "colliding raw keys",
			fields: []form.Field{
				{Name: "phone", Value: "call me maybe", Type: "text"},
				{Name: "email", Value: "ops@jetcargo.us", Type: "email"},
			},
			expected: Submission{
				"phone_input": "call me maybe",
				"email":       "ops@jetcargo.us",
				"name":        "call me maybe",
			},
		},
		{
			name: "raw values keep their whitespace",
			fields: []form.Field{
				{Name: "Your Name", Value: " Jane Doe ", Type: "text"},
				{Name: "Email", Value: " jane@x.com ", Type: "email"},
				{Name: "message", Value: "  Two pallets\n", Type: "textarea"},
				{Name: "origin", Value: " Miami ", Type: "text"},
			},
			expected: Submission{
				"Your Name":       " Jane Doe ",
				"Email":           " jane@x.com ",
				"message":         "  Two pallets\n",
				"origin":          " Miami ",
				"name":            "Jane Doe",
				"email":           "jane@x.com",
				"shipping_origin": "Miami",
			},
		},
		{
			name: "raw key equal to its alias after trimming",
			fields: []form.Field{
				{Name: "email", Value: " ops@jetcargo.us ", Type: "email"},
				{Name: "shipping_origin", Value: " MIA", Type: "select"},
				{Name: "origin", Value: "Miami", Type: "select"},
			},
			expected: Submission{
				"email":           "ops@jetcargo.us",
				"shipping_origin": " MIA",
				"origin":          "Miami",
			},
		},
		{
			name: "repeated names are joined",
			fields: []form.Field{
				{Name: "services", Value: "Air", Type: "checkbox"},
				{Name: "services", Value: "Ocean", Type: "checkbox"},
			},
			expected: Submission{
				"services": "Air, Ocean",
			},
		},
		{
			name:     "empty",
			fields:   nil,
			expected: Submission{},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			result := Normalize(test.fields)
			diff := cmp.Diff(test.expected, result)
			if diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestNormalizeMapIsDeterministic(t *testing.T) {
	raw := map[string]string{
		"b": "second@example.com",
		"a": "first@example.com",
		"c": "third@example.com",
	}
	for i := 0; i < 20; i++ {
		require.Equal(t, "first@example.com", NormalizeMap(raw).Email())
	}
}

func randomValue(t *testing.T) string {
	s, err := random.String(12)
	if err != nil {
		t.Fatal(err)
	}
	// the letter prefix keeps random values from looking like phone numbers
	return "v" + s
}

func TestEmailValuesAreAliased(t *testing.T) {
	for i := 0; i < 50; i++ {
		email := randomValue(t) + "@" + randomValue(t) + ".com"
		raw := map[string]string{
			"zz_contact": email,
			"notes":      randomValue(t),
			"x":          randomValue(t),
		}
		result := NormalizeMap(raw)
		require.Equal(t, email, result.Email())
		// raw keys survive untouched
		for k, v := range raw {
			require.Equal(t, v, result[k])
		}
	}
}

func TestNoPhoneShapeMeansNoPhone(t *testing.T) {
	for i := 0; i < 50; i++ {
		raw := map[string]string{
			"phone":     randomValue(t),
			"telephone": randomValue(t),
			"celular":   "ext. 12",
			"name":      randomValue(t),
		}
		result := NormalizeMap(raw)
		_, ok := result[KeyPhone]
		require.False(t, ok)
		require.Equal(t, raw["phone"], result["phone"+InputSuffix])
	}
}

func TestShapes(t *testing.T) {
	require.True(t, LooksLikePhone("+58 (212) 555-0101"))
	require.True(t, LooksLikePhone("5550101"))
	require.False(t, LooksLikePhone("555-01"))
	require.False(t, LooksLikePhone("call 5550101"))

	require.True(t, LooksLikeEmail("a@b.c"))
	require.False(t, LooksLikeEmail("a@b"))
	require.False(t, LooksLikeEmail("a.b"))
}
