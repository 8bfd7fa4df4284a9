package totp_test

import (
	"encoding/base32"
	"fmt"
	"testing"
	"time"

	"github.com/pquerna/otp"
	ptotp "github.com/pquerna/otp/totp"
	"golang.org/x/sync/errgroup"

	"gtotp/pkg/totp"
)

func TestMatchesPquernaOTP(t *testing.T) {
	secrets := map[totp.Algorithm][]byte{
		totp.SHA1:   []byte("12345678901234567890"),
		totp.SHA256: []byte("12345678901234567890123456789012"),
		totp.SHA512: []byte("1234567890123456789012345678901234567890123456789012345678901234"),
	}
	algos := map[totp.Algorithm]otp.Algorithm{
		totp.SHA1:   otp.AlgorithmSHA1,
		totp.SHA256: otp.AlgorithmSHA256,
		totp.SHA512: otp.AlgorithmSHA512,
	}
	times := []int64{59, 1_600_000_000, 1_700_000_013, 1_999_999_999}

	for alg, secret := range secrets {
		encoded := base32.StdEncoding.EncodeToString(secret)
		for _, digits := range []int{6, 8} {
			cfg := totp.DefaultConfig()
			cfg.Algorithm = alg
			cfg.Length = digits
			engine := totp.MustNew(cfg)
			for _, unix := range times {
				at := time.Unix(unix, 0).UTC()
				want, err := ptotp.GenerateCodeCustom(encoded, at, ptotp.ValidateOpts{
					Period:    uint(cfg.Interval),
					Digits:    otp.Digits(digits),
					Algorithm: algos[alg],
				})
				if err != nil {
					t.Fatalf("pquerna %s/%d@%d: %v", alg, digits, unix, err)
				}
				got, err := engine.GenerateAt(secret, at)
				if err != nil {
					t.Fatalf("engine %s/%d@%d: %v", alg, digits, unix, err)
				}
				if got != want {
					t.Fatalf("%s/%d@%d: got %s, pquerna %s", alg, digits, unix, got, want)
				}
			}
		}
	}
}

func TestConcurrentCallsMatchSequential(t *testing.T) {
	cfg := totp.DefaultConfig()
	cfg.Steps = 2
	engine := totp.MustNew(cfg)

	type job struct {
		secret []byte
		at     time.Time
	}
	jobs := make([]job, 256)
	for i := range jobs {
		jobs[i] = job{
			secret: []byte(fmt.Sprintf("secret-%03d-padding-bytes", i)),
			at:     time.Unix(1_700_000_000+int64(i)*17, 0),
		}
	}

	sequential := make([]string, len(jobs))
	for i, j := range jobs {
		code, err := engine.GenerateAt(j.secret, j.at)
		if err != nil {
			t.Fatal(err)
		}
		sequential[i] = code
	}

	concurrent := make([]string, len(jobs))
	var g errgroup.Group
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			code, err := engine.GenerateAt(j.secret, j.at)
			if err != nil {
				return err
			}
			ok, err := engine.ValidateAt(j.secret, code, j.at.Add(time.Duration(cfg.Interval)*time.Second))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("job %d: code %s rejected one interval later", i, code)
			}
			concurrent[i] = code
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	for i := range jobs {
		if sequential[i] != concurrent[i] {
			t.Fatalf("job %d: sequential %s, concurrent %s", i, sequential[i], concurrent[i])
		}
	}
}
