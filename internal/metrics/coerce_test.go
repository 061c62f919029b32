package metrics_test

import (
	"testing"

	"slgmonitor/internal/metrics"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		name string
		cell any
		want float64
		ok   bool
	}{
		{"json 数值", float64(1234), 1234, true},
		{"美元千分位", "$1,234,567", 1234567, true},
		{"小数", "12.5", 12.5, true},
		{"带空格", " 42 ", 42, true},
		{"空串", "", 0, false},
		{"纯文本", "N/A", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := metrics.Number(tt.cell)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("Number(%v)=(%v,%v), want (%v,%v)", tt.cell, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSumValueDefaultsToZero(t *testing.T) {
	if got := metrics.SumValue("N/A"); got != 0 {
		t.Fatalf("不可解析值求和应计 0, got %v", got)
	}
}

func TestDisplayValueDistinguishesMissingFromZero(t *testing.T) {
	if got := metrics.DisplayValue("N/A"); got != nil {
		t.Fatalf("不可解析的展示值应为 nil, got %v", *got)
	}
	got := metrics.DisplayValue(float64(0))
	if got == nil || *got != 0 {
		t.Fatal("真实的 0 必须以数值 0 展示, 不能退化成 nil")
	}
}
