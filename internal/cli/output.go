package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"bankhub/internal/bank"
)

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
)

// Message 將錯誤轉為給使用者看的訊息。
func Message(err error) string {
	switch {
	case errors.Is(err, bank.ErrAuthentication):
		return "Invalid credentials."
	case errors.Is(err, bank.ErrInsufficientFunds):
		return "Insufficient funds."
	case errors.Is(err, bank.ErrAccountNotFound):
		return "No such account."
	case errors.Is(err, bank.ErrInvalidAmount):
		return "Invalid amount."
	case errors.Is(err, bank.ErrInvalidCategory):
		return "Invalid account type."
	case errors.Is(err, bank.ErrSameAccount):
		return "Cannot transfer to the same account."
	}
	return err.Error()
}

func success(w io.Writer, format string, args ...any) {
	green.Fprintf(w, format+"\n", args...)
}

func failure(w io.Writer, err error) {
	red.Fprintln(w, Message(err))
}

func printCreated(w io.Writer, a *bank.Account) {
	success(w, "Account created. Account number: %s, secret: %s", a.ID, a.Secret)
}

func printBalance(w io.Writer, a *bank.Account) {
	fmt.Fprintf(w, "Current balance: %s\n", a.Balance)
}
