package profi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractOrderID(t *testing.T) {
	tests := []struct {
		name string
		raw  RawOrderData
		want string
	}{
		{
			name: "data-testid snippet shape",
			raw: RawOrderData{
				Tag:        "a",
				Attributes: map[string]string{"data-testid": "80340822_order-snippet"},
			},
			want: "80340822",
		},
		{
			name: "data-testid loose digits",
			raw: RawOrderData{
				Tag:        "a",
				Attributes: map[string]string{"data-testid": "snippet-91230471-card"},
			},
			want: "91230471",
		},
		{
			name: "dedicated order-id attribute",
			raw: RawOrderData{
				Tag:        "div",
				Attributes: map[string]string{"data-order-id": "77001234"},
			},
			want: "77001234",
		},
		{
			name: "link path id",
			raw: RawOrderData{
				Tag:        "div",
				Attributes: map[string]string{},
				Links:      []LinkData{{Href: "https://profi.ru/order/80551001/"}},
			},
			want: "80551001",
		},
		{
			name: "link query param id",
			raw: RawOrderData{
				Tag:        "div",
				Attributes: map[string]string{},
				Links:      []LinkData{{Href: "https://profi.ru/backoffice/n.php?o=80551002"}},
			},
			want: "80551002",
		},
		{
			name: "link testid when href is useless",
			raw: RawOrderData{
				Tag:        "div",
				Attributes: map[string]string{},
				Links:      []LinkData{{Href: "", TestID: "80551003_order-snippet"}},
			},
			want: "80551003",
		},
		{
			name: "data-id attribute",
			raw: RawOrderData{
				Tag:        "div",
				Attributes: map[string]string{"data-id": "card-80551004"},
			},
			want: "80551004",
		},
		{
			name: "element id attribute",
			raw: RawOrderData{
				Tag:        "div",
				Attributes: map[string]string{"id": "order_80551005"},
			},
			want: "80551005",
		},
		{
			name: "text marker with number sign",
			raw: RawOrderData{
				Tag:        "div",
				Attributes: map[string]string{},
				Text:       "Настроить рекламу\n№ 80551006\nВчера",
			},
			want: "80551006",
		},
		{
			name: "text marker zakaz",
			raw: RawOrderData{
				Tag:        "div",
				Attributes: map[string]string{},
				Text:       "Заказ № 80551007 от клиента",
			},
			want: "80551007",
		},
		{
			name: "text long digit run",
			raw: RawOrderData{
				Tag:        "div",
				Attributes: map[string]string{},
				Text:       "Аудит сайта, бюджет 5000, номер заявки 80551008 в системе",
			},
			want: "80551008",
		},
		{
			name: "onclick digits",
			raw: RawOrderData{
				Tag:        "div",
				Attributes: map[string]string{"onclick": "openOrder(80551009)"},
			},
			want: "80551009",
		},
		{
			name: "no identifier anywhere",
			raw: RawOrderData{
				Tag:        "div",
				Attributes: map[string]string{},
				Text:       "Настроить рекламу\nВчера\nБюджет 5000",
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractOrderID(tt.raw))
		})
	}
}

func TestExtractOrderID_PriorityOrder(t *testing.T) {
	//data-testid wins over everything else when present
	raw := RawOrderData{
		Tag: "a",
		Attributes: map[string]string{
			"data-testid":   "111_order-snippet",
			"data-order-id": "222",
			"onclick":       "open(333)",
		},
		Text:  "Заказ № 444444",
		Links: []LinkData{{Href: "/order/555"}},
	}
	assert.Equal(t, "111", ExtractOrderID(raw))

	//without testid the dedicated attribute wins over links and text
	delete(raw.Attributes, "data-testid")
	assert.Equal(t, "222", ExtractOrderID(raw))

	//links beat free text
	delete(raw.Attributes, "data-order-id")
	assert.Equal(t, "555", ExtractOrderID(raw))
}

func TestExtractOrderID_Idempotent(t *testing.T) {
	raw := RawOrderData{
		Tag:        "a",
		Attributes: map[string]string{"data-testid": "80340822_order-snippet"},
		Text:       "Настроить Яндекс Директ\n5 минут назад",
		Links:      []LinkData{{Href: "https://profi.ru/backoffice/n.php?o=80340822"}},
	}
	first := ExtractOrderID(raw)
	second := ExtractOrderID(raw)
	assert.Equal(t, first, second)
	assert.Equal(t, "80340822", first)
}

func TestExtractFallbackMainInfo(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		title string
		want  string
	}{
		{
			name:  "drops title lines and joins the rest",
			text:  "Настроить рекламу\nНужна настройка кампании в Директе\nБюджет договорной",
			title: "Настроить рекламу",
			want:  "Нужна настройка кампании в Директе Бюджет договорной",
		},
		{
			name:  "empty text",
			text:  "",
			title: "Настроить рекламу",
			want:  "",
		},
		{
			name:  "only title lines",
			text:  "Настроить рекламу\n  Настроить рекламу  ",
			title: "Настроить рекламу",
			want:  "",
		},
		{
			name:  "blank lines skipped",
			text:  "\n\nОписание заказа\n\n",
			title: "Заголовок",
			want:  "Описание заказа",
		},
		{
			name:  "empty title keeps everything",
			text:  "Первая строка\nВторая строка",
			title: "",
			want:  "Первая строка Вторая строка",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFallbackMainInfo(tt.text, tt.title))
		})
	}
}

func TestOrderLink(t *testing.T) {
	raw := RawOrderData{
		Links: []LinkData{
			{Href: "", TestID: "123_order-snippet"},
			{Href: "https://profi.ru/backoffice/n.php?o=123"},
			{Href: "https://profi.ru/backoffice/n.php?o=456"},
		},
	}
	assert.Equal(t, "https://profi.ru/backoffice/n.php?o=123", OrderLink(raw))

	assert.Equal(t, "", OrderLink(RawOrderData{}))
}
