package cli

import (
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bankhub/internal/bank"
)

func newOpenCmd(o *options) *cobra.Command {
	var kind kindFlag
	cmd := &cobra.Command{
		Use:   "open",
		Short: "open a new account",
		Long:  `Open a new account. The account number and secret are printed once and never shown again.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.app.Bank.Register(kind.c)
			if err != nil {
				return err
			}
			printCreated(cmd.OutOrStdout(), a)
			return nil
		},
	}
	cmd.Flags().Var(&kind, "type", "account type")
	cmd.MarkFlagRequired("type")
	return cmd
}

// secretFlag 註冊 --secret 並設為必填。
func secretFlag(cmd *cobra.Command, p *string) {
	cmd.Flags().StringVar(p, "secret", "", "account secret")
	cmd.MarkFlagRequired("secret")
}

func newBalanceCmd(o *options) *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "balance ID",
		Short: "show the balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.app.Bank.Verify(args[0], secret)
			if err != nil {
				return err
			}
			printBalance(cmd.OutOrStdout(), a)
			return nil
		},
	}
	secretFlag(cmd, &secret)
	return cmd
}

func newDepositCmd(o *options) *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "deposit ID AMOUNT",
		Short: "deposit into an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := bank.ParseAmount(args[1])
			if err != nil {
				return err
			}
			if _, err := o.app.Bank.Verify(args[0], secret); err != nil {
				return err
			}
			bal, err := o.app.Bank.Deposit(args[0], amt)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Deposited %s. Current balance is %s.", amt, bal)
			return nil
		},
	}
	secretFlag(cmd, &secret)
	return cmd
}

func newWithdrawCmd(o *options) *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "withdraw ID AMOUNT",
		Short: "withdraw from an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := bank.ParseAmount(args[1])
			if err != nil {
				return err
			}
			if _, err := o.app.Bank.Verify(args[0], secret); err != nil {
				return err
			}
			bal, err := o.app.Bank.Withdraw(args[0], amt)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Withdrew %s. Current balance is %s.", amt, bal)
			return nil
		},
	}
	secretFlag(cmd, &secret)
	return cmd
}

func newTransferCmd(o *options) *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "transfer FROM TO AMOUNT",
		Short: "transfer between accounts",
		Long:  `Transfer AMOUNT from account FROM to account TO. The secret is the one of the sending account.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := bank.ParseAmount(args[2])
			if err != nil {
				return err
			}
			if _, err := o.app.Bank.Verify(args[0], secret); err != nil {
				return err
			}
			if err := o.app.Bank.Transfer(args[0], args[1], amt); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Successfully transferred %s to account %s.", amt, args[1])
			return nil
		},
	}
	secretFlag(cmd, &secret)
	return cmd
}

func newCloseCmd(o *options) *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "close ID",
		Short: "close an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.app.Bank.Close(args[0], secret); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Account removed successfully.")
			return nil
		},
	}
	secretFlag(cmd, &secret)
	return cmd
}

func newListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list all accounts without their secrets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			tw.Write([]byte("ID\tCATEGORY\tBALANCE\n"))
			for _, a := range o.app.Bank.List() {
				tw.Write([]byte(a.ID + "\t" + a.Category.String() + "\t" + a.Balance.String() + "\n"))
			}
			return tw.Flush()
		},
	}
}
