package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aurahood/aurahood/internal/client/models"
	"github.com/aurahood/aurahood/internal/client/session"
)

// getLines is an indirection used to facilitate testing.
var getLines = GetLines

// ErrBadSetting is returned by ParsePatch for lines it cannot apply.
var ErrBadSetting = errors.New("bad setting")

// Profile prints the signed-in identity.
func (a *App) Profile(ctx context.Context) error {
	id, ok := a.session.Identity()
	if !ok {
		fmt.Fprintln(a.out, "Please log in first.")
		return ErrNotSignedIn
	}

	badge := ""
	if id.IsVerified {
		badge = " (verified)"
	}
	fmt.Fprintf(a.out, "%s%s\n", id.Name, badge)
	fmt.Fprintf(a.out, "  Email:        %s\n", id.Email)
	fmt.Fprintf(a.out, "  Roles:        %s\n", strings.Join(id.Roles, ", "))
	if id.Avatar != nil {
		fmt.Fprintf(a.out, "  Avatar:       %s\n", *id.Avatar)
	}
	fmt.Fprintf(a.out, "  Member since: %s\n", id.CreatedAt.Format("January 2, 2006"))
	return nil
}

// Wallet prints the aura point balance and trust score.
func (a *App) Wallet(ctx context.Context) error {
	id, ok := a.session.Identity()
	if !ok {
		fmt.Fprintln(a.out, "Please log in first.")
		return ErrNotSignedIn
	}

	fmt.Fprintln(a.out, "Wallet & Rewards")
	fmt.Fprintf(a.out, "  Aura Points:  %d\n", id.AuraPoints)
	fmt.Fprintf(a.out, "  Trust Score:  %.1f / %.1f\n", id.TrustScore, models.MaxTrustScore)
	return nil
}

// Settings reads field=value lines and applies them to the signed-in
// identity in one update.
func (a *App) Settings(ctx context.Context) error {
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(a.out, "Please log in first.")
		return ErrNotSignedIn
	}

	lines, err := getLines(a.reader,
		"Enter changes as field=value (name, email, avatar, trustScore, auraPoints, verified, roles)", a.out)
	if err != nil {
		return err
	}

	patch, err := ParsePatch(lines)
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	if patch.Empty() {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}

	if err := a.session.UpdateRecord(ctx, patch); err != nil {
		a.logger.Warn(ctx, "settings not saved", "error", err)
		var serr *session.Error
		if errors.As(err, &serr) && errors.Is(serr.Kind, session.ErrInvalidRecord) {
			fmt.Fprintf(a.out, "Settings not saved: %v\n", serr.Err)
		} else {
			fmt.Fprintln(a.out, "Settings could not be saved. Please try again.")
		}
		return err
	}

	fmt.Fprintln(a.out, "Settings saved.")
	return nil
}

// ParsePatch turns settings lines such as "trustScore=4.2" into a Patch.
// Field names are case-insensitive; blank lines are skipped. An empty
// avatar value removes the avatar and roles are comma separated.
func ParsePatch(lines []string) (models.Patch, error) {
	var p models.Patch
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		field, value, ok := strings.Cut(line, "=")
		if !ok {
			return models.Patch{}, fmt.Errorf("%w: %q is not field=value", ErrBadSetting, line)
		}
		field = strings.ToLower(strings.TrimSpace(field))
		value = strings.TrimSpace(value)

		switch field {
		case "name":
			p.Name = models.Ptr(value)
		case "email":
			p.Email = models.Ptr(value)
		case "avatar":
			if value == "" {
				p.Avatar, p.ClearAvatar = nil, true
			} else {
				p.Avatar, p.ClearAvatar = models.Ptr(value), false
			}
		case "trustscore", "trust":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return models.Patch{}, fmt.Errorf("%w: trustScore %q", ErrBadSetting, value)
			}
			p.TrustScore = models.Ptr(f)
		case "aurapoints", "points":
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return models.Patch{}, fmt.Errorf("%w: auraPoints %q", ErrBadSetting, value)
			}
			p.AuraPoints = models.Ptr(n)
		case "verified", "isverified":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return models.Patch{}, fmt.Errorf("%w: verified %q", ErrBadSetting, value)
			}
			p.IsVerified = models.Ptr(b)
		case "roles":
			roles := []string{}
			for _, r := range strings.Split(value, ",") {
				if r = strings.TrimSpace(r); r != "" {
					roles = append(roles, r)
				}
			}
			p.Roles = roles
		default:
			return models.Patch{}, fmt.Errorf("%w: unknown field %q", ErrBadSetting, field)
		}
	}
	return p, nil
}
