package common

import (
	"crypto/rand"
	"math/big"
)

// RandomInt 返回一个 0 .. max-1 之间的随机整数（使用 crypto/rand）
func RandomInt(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}

// Shuffle 就地随机打乱一个切片
func Shuffle[T any](items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := RandomInt(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
