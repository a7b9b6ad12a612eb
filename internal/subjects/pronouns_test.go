package subjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrependPronoun(t *testing.T) {
	tests := []struct {
		name    string
		spanish string
		subject string
		verb    string
		want    string
	}{
		{"statement", "Hablo español.", "yo", "HABLAR", "Yo hablo español."},
		{"question", "¿Comes aquí?", "tú", "COMER", "¿Tú comes aquí?"},
		{"already present", "Ella canta bien.", "ella", "CANTAR", "Ella canta bien."},
		{"already present lowercase", "ella canta bien.", "ella", "CANTAR", "ella canta bien."},
		{"question already present", "¿Usted vive aquí?", "usted", "VIVIR", "¿Usted vive aquí?"},
		{"compound singular", "Trabaja mucho.", "él/ella/usted", "TRABAJAR", "Usted trabaja mucho."},
		{"compound plural", "Trabajan mucho.", "ellos/ellas/ustedes", "TRABAJAR", "Ustedes trabajan mucho."},
		{"gustar verb", "Me gusta el café.", "yo", "GUSTAR", "Me gusta el café."},
		{"gustar verb lowercase key", "Me duele la cabeza.", "yo", "doler", "Me duele la cabeza."},
		{"unknown subject used as is", "Vamos.", "nosotras", "IR", "nosotras vamos."},
		{"accented first letter", "Él come.", "usted", "COMER", "Usted él come."},
		{"empty subject", "Llueve.", "", "LLOVER", "Llueve."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrependPronoun(tt.spanish, tt.subject, tt.verb))
		})
	}
}

func TestNeedsPronounFix(t *testing.T) {
	tests := []struct {
		name    string
		spanish string
		subject string
		verb    string
		want    bool
	}{
		{"missing", "Hablo español.", "yo", "HABLAR", true},
		{"present", "Yo hablo español.", "yo", "HABLAR", false},
		{"question present", "¿Tú comes?", "tú", "COMER", false},
		{"question missing", "¿Comes?", "tú", "COMER", true},
		{"gustar", "Me gusta.", "yo", "GUSTAR", false},
		{"unknown subject", "Vamos.", "nosotras", "IR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsPronounFix(tt.spanish, tt.subject, tt.verb))
		})
	}
}
