package client

import (
	"reflect"
	"unsafe"

	"pepu_portfolio_bot/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

var amountType = reflect.TypeOf(entity.Amount{})

// amountExtension decodes entity.Amount straight from the number's text so
// values outside float64 range degrade to an invalid Amount instead of
// failing the document.
type amountExtension struct {
	jsoniter.DummyExtension
}

func (e *amountExtension) CreateDecoder(typ reflect2.Type) jsoniter.ValDecoder {
	if typ.Type1() == amountType {
		return amountDecoder{}
	}
	return nil
}

type amountDecoder struct{}

func (amountDecoder) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	a := (*entity.Amount)(ptr)
	switch iter.WhatIsNext() {
	case jsoniter.NumberValue:
		*a = entity.ParseAmount(string(iter.ReadNumber()))
	case jsoniter.StringValue:
		*a = entity.ParseAmount(iter.ReadString())
	default:
		iter.Skip()
		*a = entity.Amount{}
	}
}

func newPortfolioJSON() jsoniter.API {
	api := jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
	}.Froze()
	api.RegisterExtension(&amountExtension{})
	return api
}
