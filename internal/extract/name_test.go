package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		aria string
		want string
	}{
		{"prefix and price tail", "상품명: 핸드크림 75ml 판매가: 35,000원", "핸드크림 75ml"},
		{"spaced label", "상품명 : 립밤 세트 판매가 9,000원", "립밤 세트"},
		{"full-width colon", "상품명： 디퓨저 판매가： 42,000원", "디퓨저"},
		{"no price tail", "상품명: 기프트카드", "기프트카드"},
		{"no label at all", "수제 초콜릿", "수제 초콜릿"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanName(tt.aria))
		})
	}
}

func TestCleanBrandName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "이솝", CleanBrandName("브랜드명: 이솝"))
	assert.Equal(t, "이솝", CleanBrandName("  브랜드명 : 이솝 "))
	assert.Equal(t, "이솝", CleanBrandName("브랜드명： 이솝"))
	assert.Equal(t, "설화수", CleanBrandName("설화수"))
	assert.Equal(t, "", CleanBrandName("브랜드명:"))
}
