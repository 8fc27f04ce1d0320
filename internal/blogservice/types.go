package blogservice

import (
	"github.com/sushihentaime/postbook/internal/common"
)

type BlogModel struct {
	store *common.Store
}

type BlogService struct {
	m *BlogModel
	c *common.Cache
}
