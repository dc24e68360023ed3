// widgetd runs the deposit engine against the scripted provider backend and
// serves the local JSON API a render layer drives.
package main

import (
	"context"
	"log"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/omnivault/deposit-widget/internal/config"
	"github.com/omnivault/deposit-widget/internal/diag"
	"github.com/omnivault/deposit-widget/internal/httpapi"
	"github.com/omnivault/deposit-widget/internal/sdk"
	"github.com/omnivault/deposit-widget/internal/sdksim"
	"github.com/omnivault/deposit-widget/internal/session"
	"github.com/omnivault/deposit-widget/internal/vault"
	"github.com/omnivault/deposit-widget/internal/widget"
)

// Version will be set at build time
var Version = "development"

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("loading .env: %v", err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("starting widgetd ("+Version+")",
		"go", runtime.Version(),
		"os", runtime.GOOS,
		"arch", runtime.GOARCH)

	sink := diag.NewSink(0)
	provider := sdksim.New(demoScript(cfg))

	sess, err := session.New(provider, logger.With("component", "session"), sink)
	if err != nil {
		log.Fatal(err)
	}

	encoder, err := vault.Encoder(vault.Protocol(cfg.VaultProtocol), common.HexToAddress(cfg.VaultAddress))
	if err != nil {
		log.Fatal(err)
	}

	w, err := widget.New(widget.Config{
		Session: sess,
		Destination: vault.Destination{
			ChainID:        cfg.DestinationChainID,
			TokenAddress:   common.HexToAddress(cfg.DestinationTokenAddress),
			TokenSymbol:    cfg.DestinationTokenSymbol,
			TokenDecimals:  cfg.DestinationTokenDecimals,
			Label:          cfg.DestinationLabel,
			GasTokenSymbol: cfg.DestinationGasSymbol,
		},
		EncodeDeposit:      encoder,
		Log:                logger.With("component", "widget"),
		Sink:               sink,
		PollInterval:       cfg.PollInterval,
		RefreshMinInterval: cfg.RefreshMinInterval,
		ExecuteGasLimit:    cfg.ExecuteGasLimit,
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	account := common.HexToAddress(cfg.Account)
	if err := sess.Init(ctx, sdksim.Wallet{Address: account, ChainID: cfg.DestinationChainID}); err != nil {
		log.Fatalf("session init: %v", err)
	}
	w.SetAccount(account)
	w.Selection().AutoSelect(sess.SwapBalance())

	server, err := httpapi.NewServer(httpapi.ServerOpts{
		Logger:     logger.With("component", "api-server"),
		ListenAddr: cfg.ListenAddr,
		Widget:     w,
		Session:    sess,
		Sink:       sink,
	})
	if err != nil {
		log.Fatalf("create api server: %v", err)
	}

	go w.Run(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("api server stopped", "err", err)
		}
	case sig := <-sigChan:
		logger.Info("shutting down", "signal", sig.String())
		cancel()
		<-errChan
	}

	if err := sess.Deinit(context.Background()); err != nil {
		logger.Warn("session deinit", "err", err)
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// demoScript builds the scripted provider state: balances on three chains,
// rates, and a quote delivering the configured destination token.
func demoScript(cfg config.Config) sdksim.Script {
	usdcBase := common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
	usdcArb := common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831")
	usdtOpt := common.HexToAddress("0x94b008aA00579c1307B0EF2c499aD98a8ce58e58")

	base := sdk.ChainInfo{ID: 8453, Name: "Base"}
	arbitrum := sdk.ChainInfo{ID: 42161, Name: "Arbitrum One"}
	optimism := sdk.ChainInfo{ID: 10, Name: "OP Mainnet"}

	destToken := sdk.TokenInfo{
		ContractAddress: common.HexToAddress(cfg.DestinationTokenAddress),
		Decimals:        cfg.DestinationTokenDecimals,
		Symbol:          cfg.DestinationTokenSymbol,
	}

	return sdksim.Script{
		SwapBalances: []sdk.UserAsset{
			{
				Symbol: "USDC", Decimals: 6, Balance: "1250.50", BalanceInFiat: 1250.50,
				Breakdown: []sdk.Breakdown{
					{Chain: base, Balance: "1000.50", BalanceInFiat: 1000.50, ContractAddress: usdcBase, Decimals: 6},
					{Chain: arbitrum, Balance: "250.00", BalanceInFiat: 250.00, ContractAddress: usdcArb, Decimals: 6},
				},
			},
			{
				Symbol: "USDT", Decimals: 6, Balance: "420.00", BalanceInFiat: 420.00,
				Breakdown: []sdk.Breakdown{
					{Chain: optimism, Balance: "420.00", BalanceInFiat: 420.00, ContractAddress: usdtOpt, Decimals: 6},
				},
			},
		},
		RatesPerUSD: map[string]float64{
			"USDC": 1.0,
			"USDT": 1.0,
			"ETH":  0.00025,
		},
		Quote: sdk.IntentQuote{
			Sources: []sdk.IntentSource{
				{Chain: base, Token: sdk.TokenInfo{ContractAddress: usdcBase, Decimals: 6, Symbol: "USDC"}, Amount: big.NewInt(100_500_000)},
			},
			Destination: sdk.IntentDestination{
				Chain:  sdk.ChainInfo{ID: cfg.DestinationChainID, Name: "Base"},
				Token:  destToken,
				Amount: big.NewInt(100_000_000),
				Gas: &sdk.IntentGas{
					Token:  sdk.TokenInfo{Decimals: 18, Symbol: "ETH"},
					Amount: big.NewInt(50_000_000_000_000), // 0.00005 ETH
				},
			},
		},
		Result: sdk.SwapAndExecuteResult{
			SwapResult: &sdk.SwapResult{
				ExplorerURL: "https://explorer.omnivault.example/intent/0xdemo",
				SourceSwaps: []sdk.SourceSwap{
					{ChainID: 8453, TxHash: common.HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111")},
				},
			},
			ExecuteResponse: &sdk.ExecuteResponse{
				TxHash: common.HexToHash("0x2222222222222222222222222222222222222222222222222222222222222222"),
				Receipt: &sdk.Receipt{
					GasUsed:           big.NewInt(180_000),
					EffectiveGasPrice: big.NewInt(15_000_000_000), // 15 gwei
				},
			},
		},
	}
}
