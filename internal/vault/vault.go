// Package vault describes destination yield vaults and encodes their
// deposit calls. The orchestration layer treats the encoder as an opaque
// callback; this package supplies the Aave V3 pool and Morpho (ERC-4626)
// vault implementations.
package vault

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/omnivault/deposit-widget/internal/sdk"
)

var ErrInvalidInput = errors.New("vault: invalid input")

// Protocol names a supported vault protocol.
type Protocol string

const (
	ProtocolAave   Protocol = "aave"
	ProtocolMorpho Protocol = "morpho"
)

// Destination configures the deposit target: the destination chain, the
// token the vault accepts, and display metadata.
type Destination struct {
	ChainID        uint64
	TokenAddress   common.Address
	TokenSymbol    string
	TokenDecimals  uint8
	TokenLogo      string
	Label          string
	EstimatedTime  string
	GasTokenSymbol string
}

// GasSymbol returns the destination gas currency, defaulting to ETH.
func (d Destination) GasSymbol() string {
	if d.GasTokenSymbol == "" {
		return "ETH"
	}
	return d.GasTokenSymbol
}

// ExecutePayload is the encoded destination call handed to the bridging
// provider, minus the destination chain id it already knows.
type ExecutePayload struct {
	To            common.Address
	Data          []byte
	Value         *big.Int
	TokenApproval sdk.TokenApproval
}

// DepositEncoder builds the destination contract call for a deposit of
// amount base units of the given token on behalf of user.
type DepositEncoder func(tokenSymbol string, tokenAddress common.Address, amount *big.Int, chainID uint64, user common.Address) (ExecutePayload, error)

// Config is one selectable vault.
type Config struct {
	Name          string
	Protocol      Protocol
	Address       common.Address
	DepositMethod string
	APY           string
	Description   string
}

const aavePoolABIJSON = `[{
	"inputs": [
		{"internalType": "address", "name": "asset", "type": "address"},
		{"internalType": "uint256", "name": "amount", "type": "uint256"},
		{"internalType": "address", "name": "onBehalfOf", "type": "address"},
		{"internalType": "uint16", "name": "referralCode", "type": "uint16"}
	],
	"name": "supply",
	"outputs": [],
	"stateMutability": "nonpayable",
	"type": "function"
}]`

const morphoVaultABIJSON = `[{
	"inputs": [
		{"internalType": "uint256", "name": "assets", "type": "uint256"},
		{"internalType": "address", "name": "receiver", "type": "address"}
	],
	"name": "deposit",
	"outputs": [{"internalType": "uint256", "name": "shares", "type": "uint256"}],
	"stateMutability": "nonpayable",
	"type": "function"
}]`

var (
	abiOnce sync.Once
	abiErr  error

	aaveABI   abi.ABI
	morphoABI abi.ABI
)

func initABI() error {
	abiOnce.Do(func() {
		var err error
		aaveABI, err = abi.JSON(strings.NewReader(aavePoolABIJSON))
		if err != nil {
			abiErr = fmt.Errorf("vault: parse aave pool ABI: %w", err)
			return
		}
		morphoABI, err = abi.JSON(strings.NewReader(morphoVaultABIJSON))
		if err != nil {
			abiErr = fmt.Errorf("vault: parse morpho vault ABI: %w", err)
			return
		}
	})
	return abiErr
}

// AaveEncoder returns an encoder for Aave V3 Pool.supply against pool.
func AaveEncoder(pool common.Address) DepositEncoder {
	return func(_ string, tokenAddress common.Address, amount *big.Int, _ uint64, user common.Address) (ExecutePayload, error) {
		if err := initABI(); err != nil {
			return ExecutePayload{}, err
		}
		if err := validateDeposit(pool, tokenAddress, amount, user); err != nil {
			return ExecutePayload{}, err
		}
		data, err := aaveABI.Pack("supply", tokenAddress, amount, user, uint16(0))
		if err != nil {
			return ExecutePayload{}, fmt.Errorf("vault: pack supply: %w", err)
		}
		return ExecutePayload{
			To:   pool,
			Data: data,
			TokenApproval: sdk.TokenApproval{
				Token:   tokenAddress,
				Amount:  new(big.Int).Set(amount),
				Spender: pool,
			},
		}, nil
	}
}

// MorphoEncoder returns an encoder for an ERC-4626 Morpho vault's deposit.
func MorphoEncoder(vaultAddr common.Address) DepositEncoder {
	return func(_ string, tokenAddress common.Address, amount *big.Int, _ uint64, user common.Address) (ExecutePayload, error) {
		if err := initABI(); err != nil {
			return ExecutePayload{}, err
		}
		if err := validateDeposit(vaultAddr, tokenAddress, amount, user); err != nil {
			return ExecutePayload{}, err
		}
		data, err := morphoABI.Pack("deposit", amount, user)
		if err != nil {
			return ExecutePayload{}, fmt.Errorf("vault: pack deposit: %w", err)
		}
		return ExecutePayload{
			To:   vaultAddr,
			Data: data,
			TokenApproval: sdk.TokenApproval{
				Token:   tokenAddress,
				Amount:  new(big.Int).Set(amount),
				Spender: vaultAddr,
			},
		}, nil
	}
}

// Encoder returns the protocol's encoder for target.
func Encoder(p Protocol, target common.Address) (DepositEncoder, error) {
	switch p {
	case ProtocolAave:
		return AaveEncoder(target), nil
	case ProtocolMorpho:
		return MorphoEncoder(target), nil
	default:
		return nil, fmt.Errorf("%w: unknown protocol %q", ErrInvalidInput, p)
	}
}

func validateDeposit(target, tokenAddress common.Address, amount *big.Int, user common.Address) error {
	if (target == common.Address{}) {
		return fmt.Errorf("%w: vault address must be non-zero", ErrInvalidInput)
	}
	if (tokenAddress == common.Address{}) {
		return fmt.Errorf("%w: token address must be non-zero", ErrInvalidInput)
	}
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be > 0", ErrInvalidInput)
	}
	if (user == common.Address{}) {
		return fmt.Errorf("%w: user address must be non-zero", ErrInvalidInput)
	}
	return nil
}
