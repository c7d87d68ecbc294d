package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{"tr", Turkish, false},
		{"Turkish", Turkish, false},
		{"TÜRKÇE", Turkish, false},
		{"en", English, false},
		{"en-US", English, false},
		{"english", English, false},
		{"de", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLanguage_Accessors(t *testing.T) {
	if Default != Turkish {
		t.Errorf("Default = %q, want tr", Default)
	}
	if Turkish.Name() != "Türkçe" || English.Name() != "English" {
		t.Error("unexpected language names")
	}
	if Turkish.Tag() != language.Turkish {
		t.Errorf("Turkish.Tag() = %v", Turkish.Tag())
	}
	if English.Tag() != language.AmericanEnglish {
		t.Errorf("English.Tag() = %v", English.Tag())
	}
	if all := All(); len(all) != 2 || all[0] != Default {
		t.Errorf("All() = %v, want default first", all)
	}
}
