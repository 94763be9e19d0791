package bank

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
)

// randomDraw 以 crypto/rand 均勻抽取 [lo, hi] 的整數；系統亂數源失效時退回 math/rand。
func randomDraw(lo, hi int) int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(hi-lo+1)))
	if err != nil {
		return lo + mrand.Intn(hi-lo+1)
	}
	return lo + int(n.Int64())
}
