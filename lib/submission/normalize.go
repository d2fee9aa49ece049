package submission

import (
	"regexp"
	"sort"
	"strings"

	"jetcargo-backend/lib/form"
)

var phoneShape = regexp.MustCompile(`^\+?[\d\s\-\(\)]{7,}$`)

// LooksLikeEmail is the loose shape check used for detection, validation is
// stricter.
func LooksLikeEmail(value string) bool {
	return strings.Contains(value, "@") && strings.Contains(value, ".")
}

func LooksLikePhone(value string) bool {
	return phoneShape.MatchString(strings.TrimSpace(value))
}

var (
	emailHints   = []string{"email", "e-mail", "correo"}
	phoneHints   = []string{"phone", "tel", "celular", "movil", "móvil"}
	nameHints    = []string{"name", "nombre"}
	companyHints = []string{"company", "empresa", "compania", "compañía"}

	// field ids generated by the site builder for the first ("name") input
	builderNameIds = []string{"dmform-0", "dmform-00"}
)

type synonym struct {
	key   string
	names []string
}

// exact field names that map onto the shipping related keys
var synonyms = []synonym{
	{KeyShippingOrigin, []string{"origin", "shipping_origin", "pickup", "pickup_address", "origen"}},
	{KeyFinalDestination, []string{"destination", "final_destination", "delivery", "delivery_address", "destino"}},
	{KeyCargoDetails, []string{"cargo", "cargo_details", "details", "detalles"}},
	{KeyDescriptionOfGoods, []string{"description", "goods", "description_of_goods", "descripcion"}},
	{KeyMessage, []string{"message", "mensaje", "comments", "comentarios"}},
}

var specialHandlingFlags = []string{"Fragile", "Refrigerated", "Hazardous"}

var aliasKeys = []string{KeyEmail, KeyPhone, KeyName, KeyCompany}

func containsAny(s string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(s, h) {
			return true
		}
	}
	return false
}

func equalsAny(s string, names []string) bool {
	for _, n := range names {
		if s == n {
			return true
		}
	}
	return false
}

func collect(fields []form.Field) []form.Field {
	out := make([]form.Field, 0, len(fields))
	for _, f := range fields {
		value := strings.TrimSpace(f.Value)
		if f.Name == "" || value == "" {
			continue
		}
		out = append(out, form.Field{Name: f.Name, Value: value, Type: f.Type})
	}
	return out
}

// Normalize copies the raw fields into a Submission and adds the aliases it
// can detect. Raw values are kept as submitted, aliases are trimmed.
//
// Value shape is checked first: the first value containing "@" and "." is
// the email, phone shaped values are phone candidates (a candidate whose
// field name says phone beats the first one). Field names are only
// consulted for fields whose value was not claimed by shape. A phone alias
// is never produced from the field name alone.
func Normalize(fields []form.Field) Submission {
	out := Submission{}
	for _, f := range fields {
		if f.Name == "" || strings.TrimSpace(f.Value) == "" {
			continue
		}
		prev, ok := out[f.Name]
		if ok {
			out[f.Name] = prev + ", " + f.Value
			continue
		}
		out[f.Name] = f.Value
	}
	fields = collect(fields)

	aliases := map[string]string{}
	claimed := make([]bool, len(fields))

	phoneCandidate := -1
	for i, f := range fields {
		if LooksLikeEmail(f.Value) {
			claimed[i] = true
			if _, ok := aliases[KeyEmail]; !ok {
				aliases[KeyEmail] = f.Value
			}
			continue
		}
		if LooksLikePhone(f.Value) {
			claimed[i] = true
			named := containsAny(strings.ToLower(f.Name), phoneHints)
			if phoneCandidate < 0 {
				phoneCandidate = i
				continue
			}
			alreadyNamed := containsAny(strings.ToLower(fields[phoneCandidate].Name), phoneHints)
			if named && !alreadyNamed {
				phoneCandidate = i
			}
		}
	}
	if phoneCandidate >= 0 {
		aliases[KeyPhone] = fields[phoneCandidate].Value
	}

	for i, f := range fields {
		if claimed[i] {
			continue
		}
		name := strings.ToLower(f.Name)

		switch {
		case containsAny(name, emailHints):
			if _, ok := aliases[KeyEmail]; !ok {
				aliases[KeyEmail] = f.Value
				claimed[i] = true
			}
		case containsAny(name, companyHints):
			if _, ok := aliases[KeyCompany]; !ok {
				aliases[KeyCompany] = f.Value
				claimed[i] = true
			}
		case containsAny(name, nameHints) || equalsAny(name, builderNameIds):
			if _, ok := aliases[KeyName]; !ok {
				aliases[KeyName] = f.Value
				claimed[i] = true
			}
		}
	}

	if _, ok := aliases[KeyName]; !ok {
		for i, f := range fields {
			if !claimed[i] && f.Type == "text" {
				aliases[KeyName] = f.Value
				claimed[i] = true
				break
			}
		}
	}

	for _, key := range aliasKeys {
		raw, hasRaw := out[key]
		alias, hasAlias := aliases[key]
		if hasRaw && (!hasAlias || alias != strings.TrimSpace(raw)) {
			out[key+InputSuffix] = raw
			delete(out, key)
		}
		if hasAlias {
			out[key] = alias
		}
	}

	for _, syn := range synonyms {
		// a raw field already using the key is kept as is
		if _, ok := out[syn.key]; ok {
			continue
		}
		for _, f := range fields {
			if equalsAny(strings.ToLower(f.Name), syn.names) {
				out[syn.key] = f.Value
				break
			}
		}
	}

	var handling []string
	for _, flag := range specialHandlingFlags {
		for _, f := range fields {
			if strings.EqualFold(f.Name, flag) {
				handling = append(handling, flag)
				break
			}
		}
	}
	_, hasRaw := out[KeySpecialHandling]
	if len(handling) > 0 && !hasRaw {
		out[KeySpecialHandling] = strings.Join(handling, ", ")
	}

	return out
}

// NormalizeMap normalizes an unordered field map, the keys are visited in
// sorted order so that "first" is well defined.
func NormalizeMap(raw map[string]string) Submission {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]form.Field, len(keys))
	for i, k := range keys {
		fields[i] = form.Field{Name: k, Value: raw[k]}
	}
	return Normalize(fields)
}
