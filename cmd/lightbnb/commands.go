package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/uma-arai/lightbnb/internal/model"
	"github.com/uma-arai/lightbnb/internal/service/gateway"
)

const usage = `usage: lightbnb [-strict] <command> [flags]

commands:
  user-by-email   -email EMAIL
  user-by-id      -id ID
  create-user     -name NAME -email EMAIL -password PASSWORD
  reservations    -guest-id ID [-limit N]
  properties      [-city CITY] [-owner-id ID] [-min-price N] [-max-price N] [-min-rating R] [-limit N]
  create-property < property.json`

// command runs one operation and returns the value to print.
type command func(ctx context.Context, args []string, stdin io.Reader) (any, error)

// run dispatches args to a command. Without -strict failures are logged and the
// empty result is printed; with -strict the error is returned.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, gw *gateway.Gateway) error {
	global := flag.NewFlagSet("lightbnb", flag.ContinueOnError)
	strict := global.Bool("strict", false, "return database errors instead of empty results")
	global.SetOutput(io.Discard)
	if err := global.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}
	if global.NArg() == 0 {
		return errors.New(usage)
	}

	var commands map[string]command
	if *strict {
		commands = strictCommands(gw)
	} else {
		commands = compatCommands(gateway.NewCompat(gw))
	}

	name := global.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q\n%s", name, usage)
	}

	result, err := cmd(ctx, global.Args()[1:], stdin)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func strictCommands(gw *gateway.Gateway) map[string]command {
	return map[string]command{
		"user-by-email": func(ctx context.Context, args []string, _ io.Reader) (any, error) {
			email, err := parseEmail(args)
			if err != nil {
				return nil, err
			}
			return gw.LookupUserByEmail(ctx, email)
		},
		"user-by-id": func(ctx context.Context, args []string, _ io.Reader) (any, error) {
			id, err := parseUserID(args)
			if err != nil {
				return nil, err
			}
			return gw.LookupUserByID(ctx, id)
		},
		"create-user": func(ctx context.Context, args []string, _ io.Reader) (any, error) {
			params, err := parseCreateUser(args)
			if err != nil {
				return nil, err
			}
			return gw.CreateUser(ctx, params)
		},
		"reservations": func(ctx context.Context, args []string, _ io.Reader) (any, error) {
			guestID, limit, err := parseReservations(args)
			if err != nil {
				return nil, err
			}
			return gw.ListReservationsForGuest(ctx, guestID, limit)
		},
		"properties": func(ctx context.Context, args []string, _ io.Reader) (any, error) {
			filter, limit, err := parseProperties(args)
			if err != nil {
				return nil, err
			}
			return gw.ListProperties(ctx, filter, limit)
		},
		"create-property": func(ctx context.Context, _ []string, stdin io.Reader) (any, error) {
			params, err := parseCreateProperty(stdin)
			if err != nil {
				return nil, err
			}
			return gw.CreateProperty(ctx, params)
		},
	}
}

func compatCommands(c *gateway.Compat) map[string]command {
	return map[string]command{
		"user-by-email": func(ctx context.Context, args []string, _ io.Reader) (any, error) {
			email, err := parseEmail(args)
			if err != nil {
				return nil, err
			}
			return c.LookupUserByEmail(ctx, email), nil
		},
		"user-by-id": func(ctx context.Context, args []string, _ io.Reader) (any, error) {
			id, err := parseUserID(args)
			if err != nil {
				return nil, err
			}
			return c.LookupUserByID(ctx, id), nil
		},
		"create-user": func(ctx context.Context, args []string, _ io.Reader) (any, error) {
			params, err := parseCreateUser(args)
			if err != nil {
				return nil, err
			}
			return c.CreateUser(ctx, params), nil
		},
		"reservations": func(ctx context.Context, args []string, _ io.Reader) (any, error) {
			guestID, limit, err := parseReservations(args)
			if err != nil {
				return nil, err
			}
			return c.ListReservationsForGuest(ctx, guestID, limit), nil
		},
		"properties": func(ctx context.Context, args []string, _ io.Reader) (any, error) {
			filter, limit, err := parseProperties(args)
			if err != nil {
				return nil, err
			}
			return c.ListProperties(ctx, filter, limit), nil
		},
		"create-property": func(ctx context.Context, _ []string, stdin io.Reader) (any, error) {
			params, err := parseCreateProperty(stdin)
			if err != nil {
				return nil, err
			}
			return c.CreateProperty(ctx, params), nil
		},
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseEmail(args []string) (string, error) {
	fs := newFlagSet("user-by-email")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *email == "" {
		return "", errors.New("-email is required")
	}
	return *email, nil
}

func parseUserID(args []string) (int64, error) {
	fs := newFlagSet("user-by-id")
	id := fs.Int64("id", 0, "user id")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	if *id <= 0 {
		return 0, errors.New("-id must be positive")
	}
	return *id, nil
}

func parseCreateUser(args []string) (model.CreateUserParams, error) {
	var params model.CreateUserParams
	fs := newFlagSet("create-user")
	fs.StringVar(&params.Name, "name", "", "user name")
	fs.StringVar(&params.Email, "email", "", "email address")
	fs.StringVar(&params.Password, "password", "", "password")
	if err := fs.Parse(args); err != nil {
		return params, err
	}
	return params, nil
}

func parseReservations(args []string) (int64, int, error) {
	fs := newFlagSet("reservations")
	guestID := fs.Int64("guest-id", 0, "guest user id")
	limit := fs.Int("limit", model.DefaultListLimit, "maximum rows")
	if err := fs.Parse(args); err != nil {
		return 0, 0, err
	}
	if *guestID <= 0 {
		return 0, 0, errors.New("-guest-id must be positive")
	}
	return *guestID, *limit, nil
}

// parseProperties sets a filter field only when its flag was given.
func parseProperties(args []string) (model.PropertyFilter, int, error) {
	var filter model.PropertyFilter

	fs := newFlagSet("properties")
	city := fs.String("city", "", "city substring, case-insensitive")
	ownerID := fs.Int64("owner-id", 0, "owner user id")
	minPrice := fs.Float64("min-price", 0, "minimum price per night")
	maxPrice := fs.Float64("max-price", 0, "maximum price per night")
	minRating := fs.Float64("min-rating", 0, "minimum average rating")
	limit := fs.Int("limit", model.DefaultListLimit, "maximum rows")
	if err := fs.Parse(args); err != nil {
		return filter, 0, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "city":
			filter.City = city
		case "owner-id":
			filter.OwnerID = ownerID
		case "min-price":
			filter.MinimumPricePerNight = minPrice
		case "max-price":
			filter.MaximumPricePerNight = maxPrice
		case "min-rating":
			filter.MinimumRating = minRating
		}
	})

	return filter, *limit, nil
}

func parseCreateProperty(stdin io.Reader) (model.CreatePropertyParams, error) {
	var params model.CreatePropertyParams
	dec := json.NewDecoder(stdin)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil {
		return params, fmt.Errorf("failed to decode property from stdin: %w", err)
	}
	return params, nil
}
