package api

import (
	"fmt"
	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/covidstat/internal/pkg/constants"
)

// Serializer encodes responses with sonic instead of encoding/json.
type Serializer struct {
	api sonic.API
}

func NewSerializer() *Serializer {
	return &Serializer{api: sonic.ConfigStd}
}

func (s *Serializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := s.api.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (s *Serializer) Deserialize(c echo.Context, i interface{}) error {
	if err := s.api.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrBadRequest, err.Error())
	}
	return nil
}
