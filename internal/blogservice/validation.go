package blogservice

import (
	"github.com/sushihentaime/postbook/internal/common"
)

const maxURLLength = 2048

func validateURL(v *common.Validator, url string) {
	v.Check(v.NotBlank(url), "url", "must be provided")
	v.Check(v.MaxChars(url, maxURLLength), "url", "must not be more than 2048 characters long")
}
