// Command hospitalctl manages doctors and patients through the hospital
// records API.
//
//	hospitalctl [-addr URL] [-timeout D] doctors list|full
//	hospitalctl doctors get|rm|patients ID
//	hospitalctl doctors add NAME [SPECIALIZATION]
//	hospitalctl doctors update ID NAME [SPECIALIZATION]
//	hospitalctl patients add NAME [DOCTOR_ID]
//	hospitalctl patients update ID NAME [DOCTOR_ID]
//	hospitalctl patients rm|by-doctor ID
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aoideee/hospital-records/internal/client"
	"github.com/aoideee/hospital-records/internal/data"
)

var errUsage = errors.New("usage: hospitalctl [-addr URL] [-timeout D] doctors|patients COMMAND [ARGS]")

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		logger.Error(err.Error())
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	fset := flag.NewFlagSet("hospitalctl", flag.ContinueOnError)
	addr := fset.String("addr", envOr("HOSPITAL_API_ADDR", "http://localhost:4000"), "API base URL")
	timeout := fset.Duration("timeout", client.DefaultTimeout, "Per-request timeout")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() < 2 {
		return errUsage
	}

	c := client.New(*addr, *timeout)
	resource, command, rest := fset.Arg(0), fset.Arg(1), fset.Args()[2:]

	var (
		result any
		err    error
	)
	switch resource {
	case "doctors":
		result, err = doctors(ctx, c, command, rest)
	case "patients":
		result, err = patients(ctx, c, command, rest)
	default:
		return fmt.Errorf("%w: unknown resource %q", errUsage, resource)
	}
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "\t")
	return enc.Encode(result)
}

func doctors(ctx context.Context, c *client.Client, command string, args []string) (any, error) {
	switch {
	case command == "list" && len(args) == 0:
		return c.ListDoctors(ctx)
	case command == "full" && len(args) == 0:
		return c.ListDoctorsWithPatients(ctx)
	case command == "add" && (len(args) == 1 || len(args) == 2):
		return c.CreateDoctor(ctx, data.DoctorInput{Name: args[0], Specialization: optional(args, 1)})
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("%w: doctors %s needs an id", errUsage, command)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad id %q", errUsage, args[0])
	}

	switch {
	case command == "get" && len(args) == 1:
		return c.GetDoctor(ctx, id)
	case command == "patients" && len(args) == 1:
		return c.ListPatientsForDoctor(ctx, id)
	case command == "rm" && len(args) == 1:
		return nil, c.DeleteDoctor(ctx, id)
	case command == "update" && (len(args) == 2 || len(args) == 3):
		return nil, c.UpdateDoctor(ctx, id, data.DoctorInput{Name: args[1], Specialization: optional(args, 2)})
	}
	return nil, fmt.Errorf("%w: unknown doctors command %q", errUsage, command)
}

func patients(ctx context.Context, c *client.Client, command string, args []string) (any, error) {
	if command == "add" && (len(args) == 1 || len(args) == 2) {
		doctorID, err := optionalID(args, 1)
		if err != nil {
			return nil, err
		}
		return c.CreatePatient(ctx, data.PatientInput{Name: args[0], DoctorID: doctorID})
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("%w: patients %s needs an id", errUsage, command)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad id %q", errUsage, args[0])
	}

	switch {
	case command == "by-doctor" && len(args) == 1:
		return c.ListPatientsForDoctor(ctx, id)
	case command == "rm" && len(args) == 1:
		return nil, c.DeletePatient(ctx, id)
	case command == "update" && (len(args) == 2 || len(args) == 3):
		doctorID, err := optionalID(args, 2)
		if err != nil {
			return nil, err
		}
		return nil, c.UpdatePatient(ctx, id, data.PatientInput{Name: args[1], DoctorID: doctorID})
	}
	return nil, fmt.Errorf("%w: unknown patients command %q", errUsage, command)
}

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func optionalID(args []string, i int) (*int64, error) {
	if i >= len(args) {
		return nil, nil
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad doctor id %q", errUsage, args[i])
	}
	return &id, nil
}

func envOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
