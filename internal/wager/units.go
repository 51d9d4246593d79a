package wager

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// EtherDecimals é a quantidade de casas entre ether e wei.
const EtherDecimals = 18

// ToWei converte um valor em ether para wei. Dígitos abaixo de 1 wei são truncados.
func ToWei(amount decimal.Decimal) *big.Int {
	return amount.Shift(EtherDecimals).BigInt()
}

// FromWei converte wei para ether. nil vira zero.
func FromWei(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -EtherDecimals)
}
