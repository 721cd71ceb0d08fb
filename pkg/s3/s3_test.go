package s3

import (
	"context"
	"strings"
	"testing"

	"github.com/Alijeyrad/clinica_backend/config"
)

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), config.S3Config{Region: "us-east-1"}); err == nil {
		t.Fatal("missing bucket accepted")
	}
}

func TestURLUsesPrefixAndEndpoint(t *testing.T) {
	c, err := New(context.Background(), config.S3Config{
		Endpoint:        "http://minio:9000",
		Region:          "us-east-1",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Bucket:          "clinica",
		KeyPrefix:       "exports",
		PresignTTLSec:   60,
	})
	if err != nil {
		t.Fatal(err)
	}
	url, err := c.URL(context.Background(), "payroll/p1/x.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "http://minio:9000/clinica/exports/payroll/p1/x.xlsx?") {
		t.Errorf("url = %s", url)
	}
	if !strings.Contains(url, "X-Amz-Expires=60") {
		t.Errorf("url missing expiry: %s", url)
	}
}

func TestAttachment(t *testing.T) {
	if got := attachment("payroll_2024-06-01_2024-06-30.xlsx"); got != "attachment; filename=payroll_2024-06-01_2024-06-30.xlsx" {
		t.Errorf("got %q", got)
	}
	if got := attachment("nómina junio.xlsx"); !strings.HasPrefix(got, "attachment; filename*=utf-8''") {
		t.Errorf("non-ascii name: %q", got)
	}
}
