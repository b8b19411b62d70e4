package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/BradenHooton/folio/internal/models"
	"github.com/BradenHooton/folio/internal/portal"
)

func runRegister(ctx context.Context, c *cli, args []string) error {
	fs := c.newFlagSet("register", "[-u username] [-e email]")
	username := fs.String("u", "", "username")
	email := fs.String("e", "", "email address")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	p := newPrompter(c.stdin, c.stderr)
	user, err := p.valueOr(*username, "Username")
	if err != nil {
		return err
	}
	addr, err := p.valueOr(*email, "Email")
	if err != nil {
		return err
	}
	password, err := p.secret("Password")
	if err != nil {
		return err
	}
	confirm, err := p.secret("Confirm password")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	msg, err := portal.NewAccountService(c.client).Register(ctx, models.RegisterRequest{
		Username: user,
		Email:    addr,
		Password: password,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, msg)
	fmt.Fprintf(c.stdout, "Run `folio verify -e %s` with the code from your inbox.\n", addr)
	return nil
}

func runVerify(ctx context.Context, c *cli, args []string) error {
	fs := c.newFlagSet("verify", "[-e email] [-code 123456]")
	email := fs.String("e", "", "email address")
	code := fs.String("code", "", "six digit code")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	p := newPrompter(c.stdin, c.stderr)
	addr, err := p.valueOr(*email, "Email")
	if err != nil {
		return err
	}
	otp, err := p.valueOr(*code, "Code")
	if err != nil {
		return err
	}

	msg, err := portal.NewAccountService(c.client).VerifyOTP(ctx, models.VerifyOTPRequest{Email: addr, OTP: otp})
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, msg)
	return nil
}

func runResend(ctx context.Context, c *cli, args []string) error {
	return c.emailOnly(ctx, "resend", args, portal.NewAccountService(c.client).ResendOTP)
}

func runForgot(ctx context.Context, c *cli, args []string) error {
	return c.emailOnly(ctx, "forgot", args, portal.NewAccountService(c.client).ForgotPassword)
}

// emailOnly runs a command whose only input is an address
func (c *cli) emailOnly(ctx context.Context, name string, args []string, send func(context.Context, string) (string, error)) error {
	fs := c.newFlagSet(name, "[-e email]")
	email := fs.String("e", "", "email address")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	addr, err := newPrompter(c.stdin, c.stderr).valueOr(*email, "Email")
	if err != nil {
		return err
	}
	msg, err := send(ctx, addr)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, msg)
	return nil
}

func runReset(ctx context.Context, c *cli, args []string) error {
	fs := c.newFlagSet("reset", "[-e email] [-code 123456]")
	email := fs.String("e", "", "email address")
	code := fs.String("code", "", "six digit reset code")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	p := newPrompter(c.stdin, c.stderr)
	addr, err := p.valueOr(*email, "Email")
	if err != nil {
		return err
	}
	otp, err := p.valueOr(*code, "Code")
	if err != nil {
		return err
	}
	password, err := p.secret("New password")
	if err != nil {
		return err
	}

	msg, err := portal.NewAccountService(c.client).ResetPassword(ctx, models.ResetPasswordRequest{
		Email:       addr,
		OTP:         otp,
		NewPassword: password,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, msg)
	return nil
}
