package service

import (
	"context"
	"fmt"
	"sort"

	"cex-spot/biz/dal/pg"
	"cex-spot/biz/model"

	"gorm.io/gorm"
)

// 资金账本。所有扣减都在事务内按固定顺序加行锁后复核，
// 提交前任何一腿会变负就整体回滚，余额永远不会小于 0。

type balanceKey struct {
	userID string
	ticker string
}

func (k balanceKey) String() string { return k.userID + "/" + k.ticker }

// lockBalancesTx 惰性建行后按 key 升序加锁，固定顺序避免互相持锁死锁
func lockBalancesTx(tx *gorm.DB, keys []balanceKey) (map[balanceKey]*model.Balance, error) {
	uniq := make([]balanceKey, 0, len(keys))
	seen := make(map[balanceKey]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i].String() < uniq[j].String() })

	locked := make(map[balanceKey]*model.Balance, len(uniq))
	for _, k := range uniq {
		if err := pg.EnsureBalanceRow(tx, k.userID, k.ticker); err != nil {
			return nil, err
		}
		b, err := pg.LockBalance(tx, k.userID, k.ticker)
		if err != nil {
			return nil, err
		}
		locked[k] = b
	}
	return locked, nil
}

// settleTx 结算一笔撮合：四腿资金变动要么全部提交要么全不提交
// 买方扣计价币 qty*price、得标的 qty；卖方扣标的 qty、得计价币 qty*price
// 加锁后复核双方余额，不足时在任何变动发生前返回 ErrInsufficientFunds
func settleTx(tx *gorm.DB, buyerID, sellerID, ticker string, qty, price int64, quote string) error {
	cost := qty * price
	keys := []balanceKey{
		{buyerID, quote},
		{buyerID, ticker},
		{sellerID, ticker},
		{sellerID, quote},
	}
	locked, err := lockBalancesTx(tx, keys)
	if err != nil {
		return err
	}

	buyerQuote := locked[balanceKey{buyerID, quote}]
	buyerToken := locked[balanceKey{buyerID, ticker}]
	sellerToken := locked[balanceKey{sellerID, ticker}]
	sellerQuote := locked[balanceKey{sellerID, quote}]

	if buyerQuote.Amount < cost {
		return fmt.Errorf("buyer %s has %d %s, needs %d: %w",
			buyerID, buyerQuote.Amount, quote, cost, ErrInsufficientFunds)
	}
	if sellerToken.Amount < qty {
		return fmt.Errorf("seller %s has %d %s, needs %d: %w",
			sellerID, sellerToken.Amount, ticker, qty, ErrInsufficientFunds)
	}

	buyerQuote.Amount -= cost
	buyerToken.Amount += qty
	sellerToken.Amount -= qty
	sellerQuote.Amount += cost

	for _, b := range []*model.Balance{buyerQuote, buyerToken, sellerToken, sellerQuote} {
		if err := pg.UpdateBalanceAmount(tx, b); err != nil {
			return err
		}
	}
	return nil
}

// HasSufficient 只读快查，最终裁决仍以 settleTx 内的加锁复核为准
func HasSufficient(ctx context.Context, userID, ticker string, amount int64) (bool, error) {
	have, err := pg.GetBalance(pg.GormDB.WithContext(ctx), userID, ticker)
	if err != nil {
		return false, err
	}
	return have >= amount, nil
}

// GetBalances 用户全部余额，ticker -> amount
func GetBalances(ctx context.Context, userID string) (map[string]int64, error) {
	rows, err := pg.ListBalancesByUser(pg.GormDB.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, b := range rows {
		out[b.Ticker] = b.Amount
	}
	return out, nil
}

// AdminAdjustBalance 管理员充提，delta 为负即提现，提穿余额直接拒绝
func AdminAdjustBalance(ctx context.Context, userID, ticker string, delta int64) error {
	if delta == 0 {
		return fmt.Errorf("delta must be non-zero: %w", ErrValidation)
	}
	if _, err := pg.GetUserByID(pg.GormDB.WithContext(ctx), userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return err
	}
	return pg.GormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := lockBalancesTx(tx, []balanceKey{{userID, ticker}})
		if err != nil {
			return err
		}
		b := locked[balanceKey{userID, ticker}]
		if b.Amount+delta < 0 {
			return fmt.Errorf("balance %s/%s is %d, delta %d: %w",
				userID, ticker, b.Amount, delta, ErrInsufficientFunds)
		}
		b.Amount += delta
		return pg.UpdateBalanceAmount(tx, b)
	})
}
