package cli

import (
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gymadmin/internal/client/models"
)

// promptUser asks for every member field, offering the current values as
// defaults. The card id of an existing member cannot change.
func (a *App) promptUser(u models.User) (models.User, error) {
	var err error
	if u.CardID == "" {
		if u.CardID, err = askDefault(a.reader, a.out, "Card ID", ""); err != nil {
			return u, err
		}
	}
	if u.Name, err = askDefault(a.reader, a.out, "Name", u.Name); err != nil {
		return u, err
	}
	if u.Email, err = askDefault(a.reader, a.out, "Email", u.Email); err != nil {
		return u, err
	}
	if u.Phone, err = askDefault(a.reader, a.out, "Phone", u.Phone); err != nil {
		return u, err
	}
	plan := u.Membership
	if plan == "" {
		plan = models.MembershipBasic
	}
	if u.Membership, err = askDefault(a.reader, a.out, "Membership (basic, premium, vip)", plan); err != nil {
		return u, err
	}
	u.Membership = strings.ToLower(u.Membership)

	status := string(u.Status)
	if status == "" {
		status = string(models.StatusActive)
	}
	if status, err = askDefault(a.reader, a.out, "Status (active, inactive, pending)", status); err != nil {
		return u, err
	}
	u.Status = models.Status(strings.ToLower(status))
	return u, nil
}

// promptClass asks for the class fields. A capacity that is not a number is
// sent to validation as zero.
func (a *App) promptClass(c models.Class) (models.Class, error) {
	var err error
	if c.Name, err = askDefault(a.reader, a.out, "Name", c.Name); err != nil {
		return c, err
	}
	if c.Instructor, err = askDefault(a.reader, a.out, "Instructor", c.Instructor); err != nil {
		return c, err
	}
	if c.Schedule, err = askDefault(a.reader, a.out, "Schedule", c.Schedule); err != nil {
		return c, err
	}
	capacity := ""
	if c.Capacity > 0 {
		capacity = strconv.Itoa(c.Capacity)
	}
	if capacity, err = askDefault(a.reader, a.out, "Capacity", capacity); err != nil {
		return c, err
	}
	c.Capacity, _ = strconv.Atoi(capacity)
	if c.Description, err = askDefault(a.reader, a.out, "Description", c.Description); err != nil {
		return c, err
	}
	return c, nil
}

func (a *App) promptPayment(p models.Payment) (models.Payment, error) {
	var err error
	if p.UserID, err = askDefault(a.reader, a.out, "Member card ID", p.UserID); err != nil {
		return p, err
	}
	amount := ""
	if p.Amount > 0 {
		amount = strconv.FormatFloat(p.Amount, 'f', 2, 64)
	}
	if amount, err = askDefault(a.reader, a.out, "Amount", amount); err != nil {
		return p, err
	}
	p.Amount, _ = strconv.ParseFloat(strings.TrimPrefix(amount, "$"), 64)

	method := p.PaymentMethod
	if method == "" {
		method = models.MethodCash
	}
	if p.PaymentMethod, err = askDefault(a.reader, a.out, "Method (cash, card, transfer, ath_movil)", method); err != nil {
		return p, err
	}
	if p.Description, err = askDefault(a.reader, a.out, "Description", p.Description); err != nil {
		return p, err
	}
	return p, nil
}
