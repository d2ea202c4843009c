package actors

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"mugshop/account"
)

// Attacker hammers a single identity with wrong passwords. Rejections and
// lockouts are the expected outcome; anything else is a harness failure.
func Attacker(ctx context.Context, svc *account.Service, loginField string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		_, err := svc.Login(ctx, account.LoginRequest{
			LoginField: loginField,
			Password:   fmt.Sprintf("wrong-%d", rand.Int63()),
		}, "attacker")
		if err != nil && !acceptable(err) {
			return fmt.Errorf("attacker login: %w", err)
		}
		time.Sleep(time.Duration(5+rand.Intn(15)) * time.Millisecond)
	}
}

// Customer keeps logging in with the correct password. While the attacker has
// the account locked the attempts bounce, and once the lock expires they must
// succeed again.
func Customer(ctx context.Context, svc *account.Service, loginField, password string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		_, err := svc.Login(ctx, account.LoginRequest{
			LoginField: loginField,
			Password:   password,
		}, "customer")
		if err != nil && !acceptable(err) {
			return fmt.Errorf("customer login: %w", err)
		}
		time.Sleep(time.Duration(20+rand.Intn(40)) * time.Millisecond)
	}
}

// Registrar races duplicate registrations for one identity; exactly one may
// ever win and the rest must see duplicate errors.
func Registrar(ctx context.Context, svc *account.Service, email, phone string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		_, err := svc.Register(ctx, account.RegisterRequest{
			FirstName: "Race",
			LastName:  "Runner",
			Email:     email,
			Password:  "secret1",
			Phone:     phone,
		}, "registrar")
		if err != nil &&
			!errors.Is(err, account.ErrDuplicateEmail) &&
			!errors.Is(err, account.ErrDuplicatePhone) &&
			!errors.Is(err, account.ErrStoreUnavailable) &&
			!errors.Is(err, context.Canceled) {
			return fmt.Errorf("registrar: %w", err)
		}
		time.Sleep(time.Duration(50+rand.Intn(100)) * time.Millisecond)
	}
}

// ProfileEditor mutates the profile of a live account while logins race it.
func ProfileEditor(ctx context.Context, svc *account.Service, accountID string, stop <-chan struct{}) error {
	countries := []string{"IR", "DE", "TR", "AE"}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		country := countries[rand.Intn(len(countries))]
		_, err := svc.UpdateProfile(ctx, accountID, account.UpdateProfileRequest{Country: &country})
		if err != nil && !acceptable(err) {
			return fmt.Errorf("profile editor: %w", err)
		}
		time.Sleep(time.Duration(80+rand.Intn(120)) * time.Millisecond)
	}
}

func acceptable(err error) bool {
	return errors.Is(err, account.ErrInvalidCredentials) ||
		errors.Is(err, account.ErrAccountLocked) ||
		errors.Is(err, account.ErrStoreUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
