package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dungeonlive/dungeon-backend/internal/ledger"
	"github.com/dungeonlive/dungeon-backend/internal/logger"
	"github.com/dungeonlive/dungeon-backend/internal/models"
	"github.com/dungeonlive/dungeon-backend/internal/pkg/apperror"
)

// PaymentGateway имитирует внешний платёжный шлюз. Реальных платежей
// нет: шлюз всегда подтверждает покупку.
type PaymentGateway interface {
	Charge(ctx context.Context, accountID, method string, amountUSD float64) error
}

// WalletService пополняет кошелёк пакетами токенов через симулируемые
// шлюзы: карта, мобильные деньги, крипта.
type WalletService struct {
	ledger  *ledger.Ledger
	gateway PaymentGateway

	tokenPayoutRate float64
}

// TopUpResult итог пополнения кошелька.
type TopUpResult struct {
	Credited int64 `json:"credited"`
	Balance  int64 `json:"balance"`
}

// NewWalletService создаёт сервис кошелька.
func NewWalletService(l *ledger.Ledger, gateway PaymentGateway, tokenPayoutRate float64) *WalletService {
	return &WalletService{ledger: l, gateway: gateway, tokenPayoutRate: tokenPayoutRate}
}

// Packages возвращает доступные пакеты токенов.
func (s *WalletService) Packages() []models.TokenPackage {
	return models.TokenPackages
}

// TopUp проводит покупку пакета токенов через шлюз и начисляет токены.
func (s *WalletService) TopUp(ctx context.Context, accountID, packageID, method string) (*TopUpResult, error) {
	switch method {
	case models.PaymentMethodCard, models.PaymentMethodMobileMoney, models.PaymentMethodCrypto:
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("неизвестный способ оплаты %q", method))
	}

	var pack *models.TokenPackage
	for i := range models.TokenPackages {
		if models.TokenPackages[i].ID == packageID {
			pack = &models.TokenPackages[i]
			break
		}
	}
	if pack == nil {
		return nil, apperror.New(apperror.ErrCodeNotFound, "пакет токенов не найден")
	}

	if err := s.gateway.Charge(ctx, accountID, method, pack.PriceUSD); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeBadRequest, "платёж отклонён")
	}

	balance, err := s.ledger.Credit(ctx, accountID, pack.Tokens)
	if err != nil {
		return nil, err
	}

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"account": accountID,
			"tokens":  pack.Tokens,
			"method":  method,
		}).Info("wallet top-up")
	}

	return &TopUpResult{Credited: pack.Tokens, Balance: balance}, nil
}

// TokensToUSD переводит токены в доллары по курсу выплат (для отображения).
func (s *WalletService) TokensToUSD(tokens int64) float64 {
	return float64(tokens) * s.tokenPayoutRate
}

// SimulatedGateway шлюз-заглушка: подтверждает любой платёж.
type SimulatedGateway struct{}

func (SimulatedGateway) Charge(ctx context.Context, accountID, method string, amountUSD float64) error {
	return ctx.Err()
}
