package i18n

import "testing"

func TestNormalizeLocale(t *testing.T) {
	cases := map[string]string{
		"":            "en",
		"C":           "en",
		"en_US.UTF-8": "en",
		"zh_CN.UTF-8": "zh",
		"ZH-tw":       "zh",
		"pt_BR.UTF-8": "pt",
		"pt-BR,pt;q=": "pt",
		"fr_FR":       "en",
	}
	for in, want := range cases {
		if got := normalizeLocale(in); got != want {
			t.Errorf("normalizeLocale(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDetectLangPrefersLCAll(t *testing.T) {
	t.Setenv("LC_ALL", "pt_BR.UTF-8")
	t.Setenv("LANG", "zh_CN.UTF-8")
	if got := DetectLang(); got != "pt" {
		t.Fatalf("DetectLang() = %q, want pt", got)
	}
}

func TestResolveFallsBackToEnglish(t *testing.T) {
	if got := ResolveLang(MsgCliFlagConfig, "pt"); got != translations[MsgCliFlagConfig]["en"] {
		t.Fatalf("missing pt translation should fall back to en, got %q", got)
	}
	if got := ResolveLang("no-such-key", "en"); got != "no-such-key" {
		t.Fatalf("unknown key should resolve to itself, got %q", got)
	}
	if got := ResolveLang(MsgInvalidCode, "pt"); got != "Codigo nao e valido" {
		t.Fatalf("pt translation = %q", got)
	}
}

func TestMsgf(t *testing.T) {
	t.Setenv("LC_ALL", "en_US.UTF-8")
	if got := Msgf(MsgCliSecretWritten, "/tmp/x"); got != "Secret written to /tmp/x" {
		t.Fatalf("Msgf = %q", got)
	}
	if got := Msgf(MsgEmptyKey); got != "Required parameter key is empty" {
		t.Fatalf("Msgf without args = %q", got)
	}
}

func TestEveryMessageHasEnglish(t *testing.T) {
	for key, langs := range translations {
		if langs["en"] == "" {
			t.Errorf("message %q has no en text", key)
		}
	}
}
