package main

import (
	"flag"
	"fmt"
	"os"

	"lykos-order-service/internal/common"
	"lykos-order-service/internal/config"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [amount ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	calculator, err := common.InitializeCalculator(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize fee calculator", zap.Error(err))
	}

	amounts := flag.Args()
	if len(amounts) == 0 {
		amounts = []string{"10", "100", "150", "400.01", "1000"}
	}

	schedule := calculator.Schedule()
	common.PrintHeader("FEE SPLIT REPORT", common.DefaultWidth)
	fmt.Printf("Gateway fixed fee: %s, break-even threshold: %s\n",
		schedule.GatewayFixedFee.StringFixed(2),
		schedule.BreakEvenThreshold.StringFixed(2))
	common.PrintSeparator("-", common.DefaultWidth)
	fmt.Printf("%12s %6s %12s %14s %12s\n", "amount", "pct", "platform_fee", "freelancer_net", "real_profit")

	failed := 0
	for _, raw := range amounts {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			logger.Error("Invalid amount", zap.String("amount", raw), zap.Error(err))
			failed++
			continue
		}

		split, err := calculator.Calculate(amount)
		if err != nil {
			fmt.Printf("%12s rejected: %v\n", amount.StringFixed(2), err)
			failed++
			continue
		}

		fmt.Printf("%12s %5s%% %12s %14s %12s\n",
			split.Amount.StringFixed(2),
			split.PlatformPct.Shift(2).StringFixed(0),
			split.PlatformFee.StringFixed(2),
			split.FreelancerNet.StringFixed(2),
			split.PlatformRealProfit.StringFixed(2))
	}

	common.PrintFooter(fmt.Sprintf("SUMMARY: %d amounts, %d rejected", len(amounts), failed), common.DefaultWidth)
}
