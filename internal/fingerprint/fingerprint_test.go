package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_Basic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"nan", "nan", ""},
		{"nan upper", "NaN", ""},
		{"simple", "ligation clip", "CLIP LIGATION"},
		{"model number", "MIRUS LIGATION CLIP MLT-300", "CLIP LIGATION MIRUS MLT"},
		{"parenthesized annotation", "HIV ELISA Test Kit (96 Tests)", "ELISA HIV KIT TEST"},
		{"version marker", "Hematology Analyzer (V2)", "ANALYZER HEMATOLOGY"},
		{"decimal number", "Suture 2.5 Absorbable", "ABSORBABLE SUTURE"},
		{"stopwords", "Pack of 10 Gauze with Box", "GAUZE"},
		{"short tokens", "IV Set A", ""},
		{"commas and slashes", "Clip/Applicator,Ligation", "APPLICATOR CLIP LIGATION"},
		{"plural ies", "BATTERIES", "BATTERY"},
		{"plural es", "BOXES OF GLASSES", "GLASS"},
		{"plural s", "Test Kits", "KIT TEST"},
		{"keeps ss us is", "GLASS VIRUS ANALYSIS", "ANALYSIS GLASS VIRUS"},
		{"number glued to unit kept", "SYRINGE 10ML", "10ML SYRINGE"},
		{"only numbers", "100 200.5", ""},
		{"unbalanced paren", "Clip (Large", "CLIP LARGE"},
		{"fullwidth letters", "ＣＬＩＰ", "CLIP"},
		{"repeated token", "CLIP CLIP", "CLIP"},
		{"plural folds onto repeat", "Clips, Clip Applicator", "APPLICATOR CLIP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fingerprint(tt.input))
		})
	}
}

func TestFingerprint_OrderIndependent(t *testing.T) {
	assert.Equal(t, Fingerprint("LIGATION CLIP"), Fingerprint("CLIP LIGATION"))
	assert.Equal(t, Fingerprint("test kit elisa"), Fingerprint("ELISA Test Kit"))
}

func TestFingerprint_RepeatsCollapse(t *testing.T) {
	assert.Equal(t, Fingerprint("CLIP"), Fingerprint("CLIP CLIP"))
	assert.Equal(t, []string{"CLIP", "LIGATION"}, Tokens("ligation clips ligation clip"))
}

func TestFingerprint_Idempotent(t *testing.T) {
	inputs := []string{
		"MIRUS LIGATION CLIP MLT-300",
		"HIV ELISA Test Kits (96 Tests) 2.5",
		"PHASES BATTERIES GLASSES",
		"CHILD'S BOTTLES",
		"_500 X-5-Y A(B X)Y",
		"Clip (Large",
		"3.5MM Suture 1/0",
		"Fully Automatic Biochemistry Analyzer",
		"'QUOTED'S ITEMS'",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := Fingerprint(in)
			assert.Equal(t, once, Fingerprint(once))
		})
	}
}

func TestSingularize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"CLIPS", "CLIP"},
		{"BATTERIES", "BATTERY"},
		{"BOXES", "BOX"},
		{"GLASS", "GLASS"},
		{"VIRUS", "VIRUS"},
		{"ANALYSIS", "ANALYSIS"},
		{"KIT", "KIT"},
		{"GAS", "GAS"},
		{"CLIP", "CLIP"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Singularize(tt.in), tt.in)
	}
}

func TestTokenSet_SubsetOf(t *testing.T) {
	query := TokenSet("LIGATION CLIP")
	assert.True(t, query.SubsetOf(TokenSet("MIRUS LIGATION CLIP MLT-300")))
	assert.True(t, query.SubsetOf(TokenSet("Ligation Clips")))
	assert.False(t, query.SubsetOf(TokenSet("STAPLER")))
	assert.False(t, Set{}.SubsetOf(TokenSet("STAPLER")))
}

func TestMatch_Monotonic(t *testing.T) {
	query := "LIGATION CLIP"
	item := "V SHAPE LIGATION CLIP"
	assert.True(t, Match(query, item))
	for _, extra := range []string{" TITANIUM", " VMLT-400", " MEDIUM LARGE", " (STERILE)"} {
		assert.True(t, Match(query, item+extra), item+extra)
	}
}

func TestMatch_Examples(t *testing.T) {
	tests := []struct {
		query, item string
		want        bool
	}{
		{"LIGATION CLIP", "MIRUS LIGATION CLIP MLT-300", true},
		{"LIGATION CLIP", "V SHAPE LIGATION CLIP VMLT-400", true},
		{"LIGATION CLIP", "Ligation Clips", true},
		{"PCR MACHINE", "Real Time PCR Machine", true},
		{"SYPHILIS TEST KIT", "Syphilis Total Antibody Test Elisa Kit", true},
		{"LIGATION CLIP", "STAPLER", false},
		{"", "STAPLER", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Match(tt.query, tt.item), "%q vs %q", tt.query, tt.item)
	}
}
