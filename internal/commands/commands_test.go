package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/schwabstmt/internal/config"
)

var binaryPath string

const (
	brokerageExport = "XXXX1234_Transactions_20240405-101112.json"
	checkingExport  = "XXXX5678_Transactions_20240305-090000.json"
)

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "schwabstmt-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "schwabstmt")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/schwabstmt")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

// run executes the binary inside dir so no stray config file is picked up.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// workspace copies the fixtures named into a fresh directory.
func workspace(t *testing.T, fixtures ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range fixtures {
		data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return dir
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "schwabstmt version dev")
}

func TestConvert_OFX(t *testing.T) {
	dir := workspace(t, brokerageExport)
	out, err := run(t, dir, "convert", brokerageExport)
	require.NoError(t, err, out)

	dest := filepath.Join(dir, "XXXX1234_Transactions_20240405-101112.ofx")
	assert.Contains(t, out, "(16 lines)")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	ofx := string(data)
	assert.True(t, strings.HasPrefix(ofx, "OFXHEADER:100"))
	assert.Contains(t, ofx, "<ACCTID>XXXX1234\n")
	assert.Contains(t, ofx, "<FITID>20230922-1\n")
	assert.Contains(t, ofx, "<FITID>20231212-3\n")
	assert.Contains(t, ofx, "<SELLSTOCK>")
	assert.Contains(t, ofx, "<TICKER>SWVXX\n")
	assert.NotContains(t, ofx, "<BANKMSGSRSV1>")
}

func TestConvert_CSVToStdout(t *testing.T) {
	dir := workspace(t, checkingExport)
	out, err := run(t, dir, "convert", checkingExport, "--format", "csv", "--output", "-", "--log-level", "error")
	require.NoError(t, err, out)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "ledger,id,date,kind,sub_kind,security_id,units,unit_price,amount,fees,check_no,memo", lines[0])
	assert.Equal(t, "bank,20240301-1,2024-03-01,BANK_TRANSACTION,DEBIT,,,,-0.46,,,VERIFY ACCT", lines[1])
	assert.Equal(t, "bank,20240301-2,2024-03-01,BANK_TRANSACTION,CREDIT,,,,0.25,,,VERIFY ACCT", lines[2])
}

func TestConvert_XLSXDirectory(t *testing.T) {
	dir := workspace(t, brokerageExport, checkingExport)
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	out, err := run(t, dir, "convert", ".", "--format", "xlsx", "--output", outDir)
	require.NoError(t, err, out)

	f, err := excelize.OpenFile(filepath.Join(outDir, "XXXX1234_Transactions_20240405-101112.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Investment")
	require.NoError(t, err)
	assert.Len(t, rows, 17)

	_, err = os.Stat(filepath.Join(outDir, "XXXX5678_Transactions_20240305-090000.xlsx"))
	assert.NoError(t, err)
}

func TestConvert_AccountOverride(t *testing.T) {
	dir := workspace(t, brokerageExport)
	out, err := run(t, dir, "convert", brokerageExport, "--account", "brokerage", "--output", "-", "--log-level", "error")
	require.NoError(t, err, out)
	assert.Contains(t, out, "<ACCTID>brokerage\n")
}

func TestConvert_ConfigAlias(t *testing.T) {
	dir := workspace(t, brokerageExport)
	cfg := config.Default()
	cfg.Accounts = map[string]string{"XXXX1234": "joint-brokerage"}
	cfg.Output.Format = "csv"
	require.NoError(t, config.Save(filepath.Join(dir, config.DefaultFile), cfg))

	out, err := run(t, dir, "convert", brokerageExport)
	require.NoError(t, err, out)

	data, err := os.ReadFile(filepath.Join(dir, "XXXX1234_Transactions_20240405-101112.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "investment,20230922-1,2023-09-22,BUY,,SWVXX,100,1,-100,,,")

	out, err = run(t, dir, "convert", brokerageExport, "--format", "ofx", "--output", "-", "--log-level", "error")
	require.NoError(t, err, out)
	assert.Contains(t, out, "<ACCTID>joint-brokerage\n")
}

func TestConvert_UnknownActionFails(t *testing.T) {
	dir := workspace(t, "unknown_action.json")
	out, err := run(t, dir, "convert", "unknown_action.json")
	require.Error(t, err)
	assert.Contains(t, out, `unrecognized action: "Mystery Transaction"`)

	_, statErr := os.Stat(filepath.Join(dir, "unknown_action.ofx"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvert_UnknownFormat(t *testing.T) {
	dir := workspace(t, brokerageExport)
	out, err := run(t, dir, "convert", brokerageExport, "--format", "qif")
	require.Error(t, err)
	assert.Contains(t, out, `unknown format "qif"`)
}

func TestConvert_AdvisoryLogged(t *testing.T) {
	dir := workspace(t, brokerageExport)
	out, err := run(t, dir, "convert", brokerageExport, "--log-format", "json")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"symbol":"XYZ"`)
	assert.Contains(t, out, "cost basis")
}

func TestSummary(t *testing.T) {
	dir := workspace(t, brokerageExport)
	out, err := run(t, dir, "summary", brokerageExport, "--log-level", "error")
	require.NoError(t, err, out)

	assert.Contains(t, out, "XXXX1234")
	assert.Contains(t, out, "2023-09-22 to 2024-04-02")
	assert.Contains(t, out, "0 bank, 16 investment")
	assert.Contains(t, out, "SWVXX, VTI, VTSAX, XYZ")
	assert.Contains(t, out, "$691.10")
	assert.Contains(t, out, "Advisories:")
}

func TestValidate(t *testing.T) {
	dir := workspace(t, brokerageExport, checkingExport)
	out, err := run(t, dir, "validate", ".", "--log-level", "error")
	require.NoError(t, err, out)
	assert.Contains(t, out, "ok   XXXX1234_Transactions_20240405-101112.json (0 bank, 16 investment, 1 advisories)")
	assert.Contains(t, out, "ok   XXXX5678_Transactions_20240305-090000.json (7 bank, 0 investment, 0 advisories)")
}

func TestValidate_Failure(t *testing.T) {
	dir := workspace(t, brokerageExport, "unknown_action.json")
	out, err := run(t, dir, "validate", brokerageExport, "unknown_action.json", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, out, "ok   XXXX1234")
	assert.Contains(t, out, "FAIL unknown_action.json")
	assert.Contains(t, out, "1 of 2 exports failed validation")
}

func TestScan(t *testing.T) {
	dir := workspace(t, brokerageExport, checkingExport, "unknown_action.json")
	out, err := run(t, dir, "scan")
	require.NoError(t, err, out)
	assert.Contains(t, out, "ACCOUNT")
	assert.Contains(t, out, "XXXX1234")
	assert.Contains(t, out, "XXXX5678")
	assert.NotContains(t, out, "unknown_action.json")
}

func TestScan_Empty(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir, "scan", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No exports found")
}

func TestActions(t *testing.T) {
	out, err := run(t, t.TempDir(), "actions")
	require.NoError(t, err)
	assert.Contains(t, out, "  Reinvest Shares\n")
	assert.Contains(t, out, "  Cash In Lieu\n")
	assert.Contains(t, out, "  ACH -> DEBIT or CREDIT\n")
	assert.Contains(t, out, "  VISA -> POS\n")
}

func TestActions_ConfiguredTypeCodes(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.BankTypeCodes = map[string]string{"WIRE": "DEBIT", "VISA": "OTHER"}
	require.NoError(t, config.Save(filepath.Join(dir, config.DefaultFile), cfg))

	out, err := run(t, dir, "actions")
	require.NoError(t, err, out)
	assert.Contains(t, out, "  WIRE -> DEBIT\n")
	assert.Contains(t, out, "  VISA -> OTHER\n")
	assert.Contains(t, out, "  ATM -> ATM\n")
	assert.Less(t, strings.Index(out, "  VISA"), strings.Index(out, "  WIRE"))
}

func TestActions_SortedAndStable(t *testing.T) {
	dir := t.TempDir()
	first, err := run(t, dir, "actions")
	require.NoError(t, err)
	second, err := run(t, dir, "actions")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Less(t, strings.Index(first, "  ADR Mgmt Fee\n"), strings.Index(first, "  Wire Sent\n"))
}

func TestUnknownInputFormat(t *testing.T) {
	dir := workspace(t, brokerageExport)
	cfg := config.Default()
	cfg.Input.Format = "chase-csv"
	require.NoError(t, config.Save(filepath.Join(dir, config.DefaultFile), cfg))

	out, err := run(t, dir, "convert", brokerageExport)
	require.Error(t, err)
	assert.Contains(t, out, `unknown input format "chase-csv"`)
	assert.Contains(t, out, "supported: schwab-json")
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir, "config", "init")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Wrote schwabstmt.yaml")

	cfg, err := config.Load(filepath.Join(dir, config.DefaultFile))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	out, err = run(t, dir, "config", "init")
	require.Error(t, err)
	assert.Contains(t, out, "already exists")

	_, err = run(t, dir, "config", "init", "--force")
	assert.NoError(t, err)
}

func TestBadConfig(t *testing.T) {
	dir := workspace(t, brokerageExport)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte("currency: dollars\n"), 0o644))
	out, err := run(t, dir, "summary", brokerageExport)
	require.Error(t, err)
	assert.Contains(t, out, `currency "dollars"`)
}
