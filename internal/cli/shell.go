package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bankhub/internal/bank"
)

func newShellCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "interactive menu",
		Long:  `Start the interactive menu: open accounts, log in, check balances, deposit, withdraw, transfer and close accounts.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh := &shell{bank: o.app.Bank, in: bufio.NewScanner(cmd.InOrStdin()), out: cmd.OutOrStdout()}
			sh.run()
			return nil
		},
	}
}

// shell 為互動式選單；任何失敗都只印出訊息，迴圈持續執行直到選擇離開或輸入結束。
type shell struct {
	bank *bank.Bank
	in   *bufio.Scanner
	out  io.Writer
}

// prompt 印出提示並讀取一行；輸入結束時 ok 為 false。
func (s *shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *shell) run() {
	for {
		fmt.Fprint(s.out, "\n1. Open Account\n2. Login\n3. Exit\n")
		choice, ok := s.prompt("Enter choice: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			kind, ok := s.prompt("Enter account type (individual/business): ")
			if !ok {
				return
			}
			c, err := bank.ParseKind(kind)
			if err != nil {
				failure(s.out, err)
				continue
			}
			a, err := s.bank.Register(c)
			if err != nil {
				failure(s.out, err)
				continue
			}
			printCreated(s.out, a)
		case "2":
			id, ok := s.prompt("Enter account number: ")
			if !ok {
				return
			}
			secret, ok := s.prompt("Enter password: ")
			if !ok {
				return
			}
			if _, err := s.bank.Verify(id, secret); err != nil {
				failure(s.out, err)
				continue
			}
			if !s.session(id, secret) {
				return
			}
		case "3":
			return
		default:
			fmt.Fprintln(s.out, "Invalid choice.")
		}
	}
}

// session 為登入後的選單；回傳 false 代表輸入已結束。
func (s *shell) session(id, secret string) bool {
	for {
		fmt.Fprint(s.out, "\n1. Check Balance\n2. Deposit\n3. Withdraw\n4. Transfer Funds\n5. Close Account\n6. Logout\n")
		action, ok := s.prompt("Enter action: ")
		if !ok {
			return false
		}
		switch action {
		case "1":
			a, err := s.bank.Get(id)
			if err != nil {
				failure(s.out, err)
				continue
			}
			printBalance(s.out, a)
		case "2", "3":
			label := "Enter amount to deposit: "
			if action == "3" {
				label = "Enter amount to withdraw: "
			}
			raw, ok := s.prompt(label)
			if !ok {
				return false
			}
			amt, err := bank.ParseAmount(raw)
			if err != nil {
				failure(s.out, err)
				continue
			}
			if action == "2" {
				bal, err := s.bank.Deposit(id, amt)
				if err != nil {
					failure(s.out, err)
					continue
				}
				success(s.out, "Deposited %s. Current balance is %s.", amt, bal)
			} else {
				bal, err := s.bank.Withdraw(id, amt)
				if err != nil {
					failure(s.out, err)
					continue
				}
				success(s.out, "Withdrew %s. Current balance is %s.", amt, bal)
			}
		case "4":
			to, ok := s.prompt("Enter receiver account number: ")
			if !ok {
				return false
			}
			raw, ok := s.prompt("Enter amount to transfer: ")
			if !ok {
				return false
			}
			amt, err := bank.ParseAmount(raw)
			if err != nil {
				failure(s.out, err)
				continue
			}
			if err := s.bank.Transfer(id, to, amt); err != nil {
				failure(s.out, err)
				continue
			}
			success(s.out, "Successfully transferred %s to account %s.", amt, to)
		case "5":
			if err := s.bank.Close(id, secret); err != nil {
				failure(s.out, err)
				continue
			}
			success(s.out, "Account removed successfully.")
			return true
		case "6":
			return true
		default:
			fmt.Fprintln(s.out, "Invalid action.")
		}
	}
}
