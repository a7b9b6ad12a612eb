package tags

// VerbMeta describes the grammatical properties of a verb
type VerbMeta struct {
	Type                string // ar, er or ir
	Regularity          string // regular, irregular or highly-irregular
	StemChange          string
	YoForm              string
	Reflexive           bool
	Copula              bool
	SpecialConstruction string
	SpellingChange      string
}

// Tags returns the key:value tags implied by the metadata
func (m VerbMeta) Tags() []string {
	out := []string{"verb-type:" + m.Type, "regularity:" + m.Regularity}
	if m.StemChange != "" {
		out = append(out, "stem-change:"+m.StemChange)
	}
	if m.YoForm != "" {
		out = append(out, "yo-form:"+m.YoForm)
	}
	if m.Reflexive {
		out = append(out, "reflexive:true")
	}
	if m.Copula {
		out = append(out, "copula:true")
	}
	if m.SpecialConstruction != "" {
		out = append(out, "special-construction:"+m.SpecialConstruction)
	}
	if m.SpellingChange != "" {
		out = append(out, "spelling-change:"+m.SpellingChange)
	}
	return out
}

// Lookup returns the metadata of an upper case verb
func Lookup(verb string) (VerbMeta, bool) {
	m, ok := verbMetadata[verb]
	return m, ok
}

var verbMetadata = map[string]VerbMeta{
	// Tier 1
	"HABLAR": {Type: "ar", Regularity: "regular"},
	"COMER":  {Type: "er", Regularity: "regular"},
	"VIVIR":  {Type: "ir", Regularity: "regular"},
	"SER":    {Type: "er", Regularity: "highly-irregular", Copula: true},
	"ESTAR":  {Type: "ar", Regularity: "highly-irregular", Copula: true},
	"TENER":  {Type: "er", Regularity: "irregular", StemChange: "e-ie"},
	"IR":     {Type: "ir", Regularity: "highly-irregular"},
	"HACER":  {Type: "er", Regularity: "irregular", YoForm: "go"},
	"PODER":  {Type: "er", Regularity: "irregular", StemChange: "o-ue"},
	"QUERER": {Type: "er", Regularity: "irregular", StemChange: "e-ie"},

	// Tier 2
	"LLAMARSE":    {Type: "ar", Regularity: "regular", Reflexive: true},
	"LEVANTARSE":  {Type: "ar", Regularity: "regular", Reflexive: true},
	"SENTARSE":    {Type: "ar", Regularity: "irregular", StemChange: "e-ie", Reflexive: true},
	"ACOSTARSE":   {Type: "ar", Regularity: "irregular", StemChange: "o-ue", Reflexive: true},
	"DESPERTARSE": {Type: "ar", Regularity: "irregular", StemChange: "e-ie", Reflexive: true},
	"DUCHARSE":    {Type: "ar", Regularity: "regular", Reflexive: true},
	"LAVARSE":     {Type: "ar", Regularity: "regular", Reflexive: true},
	"LAVAR":       {Type: "ar", Regularity: "regular"},
	"PONERSE":     {Type: "er", Regularity: "irregular", YoForm: "go", Reflexive: true},
	"VESTIRSE":    {Type: "ir", Regularity: "irregular", StemChange: "e-i", Reflexive: true},
	"QUEDARSE":    {Type: "ar", Regularity: "regular", Reflexive: true},

	// Tier 3
	"IRSE":     {Type: "ir", Regularity: "highly-irregular", Reflexive: true},
	"VENIR":    {Type: "ir", Regularity: "irregular", StemChange: "e-ie"},
	"PONER":    {Type: "er", Regularity: "irregular", YoForm: "go"},
	"SALIR":    {Type: "ir", Regularity: "irregular", YoForm: "go"},
	"VER":      {Type: "er", Regularity: "irregular"},
	"DAR":      {Type: "ar", Regularity: "irregular"},
	"DECIR":    {Type: "ir", Regularity: "irregular", StemChange: "e-i", YoForm: "go"},
	"SABER":    {Type: "er", Regularity: "irregular", YoForm: "irregular"},
	"OÍR":      {Type: "ir", Regularity: "highly-irregular"},
	"TRAER":    {Type: "er", Regularity: "irregular", YoForm: "go"},
	"CREER":    {Type: "er", Regularity: "regular", SpellingChange: "preterite"},
	"SENTIRSE": {Type: "ir", Regularity: "irregular", StemChange: "e-ie", Reflexive: true},

	// Tier 4
	"NECESITAR":   {Type: "ar", Regularity: "regular"},
	"LLEVAR":      {Type: "ar", Regularity: "regular"},
	"PENSAR":      {Type: "ar", Regularity: "irregular", StemChange: "e-ie"},
	"ENTENDER":    {Type: "er", Regularity: "irregular", StemChange: "e-ie"},
	"SENTIR":      {Type: "ir", Regularity: "irregular", StemChange: "e-ie"},
	"CONOCER":     {Type: "er", Regularity: "irregular", YoForm: "zco"},
	"ENCONTRAR":   {Type: "ar", Regularity: "irregular", StemChange: "o-ue"},
	"ENCONTRARSE": {Type: "ar", Regularity: "irregular", StemChange: "o-ue", Reflexive: true},
	"PREOCUPARSE": {Type: "ar", Regularity: "regular", Reflexive: true},
	"DIVERTIRSE":  {Type: "ir", Regularity: "irregular", StemChange: "e-ie", Reflexive: true},

	// Tier 5, indirect object constructions
	"GUSTAR":   {Type: "ar", Regularity: "regular", SpecialConstruction: "indirect-object"},
	"DOLER":    {Type: "er", Regularity: "irregular", StemChange: "o-ue", SpecialConstruction: "indirect-object"},
	"ENCANTAR": {Type: "ar", Regularity: "regular", SpecialConstruction: "indirect-object"},
	"MOLESTAR": {Type: "ar", Regularity: "regular", SpecialConstruction: "indirect-object"},
	"IMPORTAR": {Type: "ar", Regularity: "regular", SpecialConstruction: "indirect-object"},
	"FALTAR":   {Type: "ar", Regularity: "regular", SpecialConstruction: "indirect-object"},
	"PARECER":  {Type: "er", Regularity: "irregular", YoForm: "zco", SpecialConstruction: "indirect-object"},
}
