package dto

import (
	"innkeep/shared/constant"
	"innkeep/shared/model"
)

type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
}

func (m *Metadata) FromModel(meta model.Metadata) {
	m.CreatedAt = meta.CreatedAt.Format(constant.DateFormat)
	m.ModifiedAt = meta.ModifiedAt.Format(constant.DateFormat)
}
