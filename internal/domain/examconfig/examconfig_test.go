package examconfig_test

import (
	"testing"

	"github.com/certprep/cbt/internal/domain/examconfig"
)

func TestParse_ExamRandom(t *testing.T) {
	got := examconfig.Parse("?ui=exam&mode=random&certificateId=7")
	want := examconfig.Config{
		UI:            examconfig.UIExam,
		Mode:          examconfig.SelectionRandom,
		CertificateID: "7",
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestParse_DefaultsToPractice(t *testing.T) {
	got := examconfig.Parse("")
	if got.UI != examconfig.UIPractice {
		t.Errorf("expected practice ui, got %q", got.UI)
	}
	if got.Mode != "" || got.Date != "" || got.CertName != "" {
		t.Errorf("expected empty fields, got %+v", got)
	}
}

func TestParse_FullURLAndEscapes(t *testing.T) {
	got := examconfig.Parse("https://example.com/cbt/exam?ui=practice&mode=past&date=2024-05-01&start=2024-01-01&end=2024-12-31&certName=%EC%A0%95%EB%B3%B4%EC%B2%98%EB%A6%AC%EA%B8%B0%EC%82%AC#top")

	if got.Mode != examconfig.SelectionPast {
		t.Errorf("expected past mode, got %q", got.Mode)
	}
	if got.Date != "2024-05-01" || got.Start != "2024-01-01" || got.End != "2024-12-31" {
		t.Errorf("unexpected dates: %+v", got)
	}
	if got.CertName != "정보처리기사" {
		t.Errorf("expected decoded cert name, got %q", got.CertName)
	}
}

func TestParse_Permissive(t *testing.T) {
	got := examconfig.Parse("ui=bogus&%zz=1&certificateId=abc")

	// unknown values are kept, malformed pairs skipped
	if got.UI != "bogus" {
		t.Errorf("expected ui kept verbatim, got %q", got.UI)
	}
	if got.CertificateID != "abc" {
		t.Errorf("expected certificateId abc, got %q", got.CertificateID)
	}
}

func TestParse_QuestionMarkInValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bare query", "certName=what?&ui=exam&certificateId=7"},
		{"leading mark", "?certName=what?&ui=exam&certificateId=7"},
		{"path", "/cbt/exam?certName=what?&ui=exam&certificateId=7"},
		{"url", "https://example.com/cbt?certName=what?&ui=exam&certificateId=7#q"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := examconfig.Parse(tt.raw)
			if got.CertName != "what?" {
				t.Errorf("expected cert name %q, got %q", "what?", got.CertName)
			}
			if got.UI != examconfig.UIExam || got.CertificateID != "7" {
				t.Errorf("unexpected config %+v", got)
			}
		})
	}
}

func TestParse_PathWithoutQuery(t *testing.T) {
	got := examconfig.Parse("/cbt/exam")
	if got != (examconfig.Config{UI: examconfig.UIPractice}) {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	cfg := examconfig.Config{UI: examconfig.UIExam, Mode: examconfig.SelectionRandom, CertName: "SQLD", CertificateID: "3"}

	if got := examconfig.Parse(cfg.Encode()); got != cfg {
		t.Errorf("expected %+v, got %+v", cfg, got)
	}
	if !cfg.IsExam() || !cfg.IsRandom() {
		t.Error("expected exam/random helpers to report true")
	}
}
