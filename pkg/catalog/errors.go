package catalog

import "errors"

var (
	ErrNoSuchPlan    = errors.New("catalog plan not found")
	ErrNoSuchProduct = errors.New("catalog product not found")
	ErrNoSuchPhase   = errors.New("catalog plan phase not found")

	ErrNoCatalogForDate = errors.New("no catalog version effective at the requested date")
	ErrPlanNotFound     = errors.New("no acceptable plan found across catalog versions")

	ErrPriceListNotFound         = errors.New("price list not found")
	ErrAmbiguousPlanForPriceList = errors.New("price list exposes more than one plan for product and billing period")

	ErrEmptyPlanReference   = errors.New("plan reference carries neither a plan name nor a product specification")
	ErrCurrencyNotSupported = errors.New("currency not present in price table")
	ErrDuplicateCurrency    = errors.New("duplicate currency in price table")
	ErrDuplicateEntity      = errors.New("duplicate entity name in catalog collection")
)
