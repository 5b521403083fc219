package translation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Normalize_Lang(t *testing.T) {
	req := require.New(t)

	req.Equal("vi", NormalizeLang("vn"))
	req.Equal("vi", NormalizeLang("VN"))
	req.Equal("fr", NormalizeLang("FR"))
	req.Equal("en", NormalizeLang("en"))
}

func Test_Detect_Lang(t *testing.T) {
	req := require.New(t)

	req.Equal("fr", DetectLang("Bonjour tout le monde, comment allez-vous aujourd'hui ?"))
	req.Equal("en", DetectLang("Hello everyone, how are you doing today my friends?"))
	// Unreliable input falls back to English
	req.Equal("en", DetectLang("ok"))
}

func Test_Token_Budget_Grows_With_Input(t *testing.T) {
	req := require.New(t)

	req.Equal(30, TokenBudget(""))
	req.Equal(34, TokenBudget("hello"))
	req.Equal(42, TokenBudget("see you soon"))
}
