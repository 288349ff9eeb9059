package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadChannelRecords_CSV(t *testing.T) {
	path := writeFile(t, "channels.csv",
		"name,conversion_rate,payment_amount\n"+
			"short-video,1.34%,180000\n"+
			"live-stream,0.0089,72000\n"+
			"referral,0.15%,9000\n")

	records, err := ReadChannelRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "short-video", records[0].Name)
	assert.InDelta(t, 0.0134, records[0].ConversionRate, 1e-9)
	assert.Equal(t, 180000.0, records[0].PaymentAmount)
	assert.InDelta(t, 0.0089, records[1].ConversionRate, 1e-9)
	assert.InDelta(t, 0.0015, records[2].ConversionRate, 1e-9)
}

func TestReadChannelRecords_HeaderAliases(t *testing.T) {
	path := writeFile(t, "channels.csv",
		"Channel,Rate,Revenue\n"+
			"live-stream,0.89%,72000\n")

	records, err := ReadChannelRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "live-stream", records[0].Name)
	assert.InDelta(t, 0.0089, records[0].ConversionRate, 1e-9)
	assert.Equal(t, 72000.0, records[0].PaymentAmount)
}

func TestReadChannelRecords_JSON(t *testing.T) {
	path := writeFile(t, "channels.json",
		`[{"name":"short-video","conversion_rate":0.0134,"payment_amount":180000},
		  {"name":"referral","conversion_rate":"0.15%"}]`)

	records, err := ReadChannelRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.InDelta(t, 0.0134, records[0].ConversionRate, 1e-9)
	assert.InDelta(t, 0.0015, records[1].ConversionRate, 1e-9)
	assert.Equal(t, 0.0, records[1].PaymentAmount)
}

func TestReadChannelRecords_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.xlsx")

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]any{"name", "conversion_rate", "payment_amount"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A2", &[]any{"short-video", "1.34%", 180000}))
	require.NoError(t, wb.SetSheetRow(sheet, "A3", &[]any{"live-stream", "0.89%"}))
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	records, err := ReadChannelRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.InDelta(t, 0.0134, records[0].ConversionRate, 1e-9)
	assert.Equal(t, 180000.0, records[0].PaymentAmount)
	assert.Equal(t, 0.0, records[1].PaymentAmount)
}

func TestReadChannelRecords_Errors(t *testing.T) {
	t.Run("missing name", func(t *testing.T) {
		path := writeFile(t, "channels.csv", "name,conversion_rate\n,0.01\n")
		_, err := ReadChannelRecords(path)
		assert.ErrorContains(t, err, "row 2")
	})

	t.Run("bad rate", func(t *testing.T) {
		path := writeFile(t, "channels.csv", "name,conversion_rate\nx,not-a-number\n")
		_, err := ReadChannelRecords(path)
		assert.ErrorContains(t, err, "row 2")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "channels.txt", "whatever")
		_, err := ReadChannelRecords(path)
		assert.ErrorContains(t, err, "unsupported file type")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "channels.csv", "")
		_, err := ReadChannelRecords(path)
		assert.Error(t, err)
	})
}

func TestReadLeads_CSV(t *testing.T) {
	path := writeFile(t, "leads.csv",
		"lead_id,name,channel,grade,sales_rep,first_contact,last_followup,followups,enrolled_at,course,amount\n"+
			"L001,Chen Wei,short-video,A,rep-east-1,2026-08-10 09:30:00,2026-08-14 16:00:00,3,2026-08-15,pro,12800\n"+
			"L002,Li Na,live-stream,B,rep-east-1,2026-08-12,,1,,,\n")

	leads, err := ReadLeads(path)
	require.NoError(t, err)
	require.Len(t, leads, 2)

	first := leads[0]
	assert.Equal(t, "L001", first.ID)
	assert.Equal(t, "short-video", first.Channel)
	assert.Equal(t, 3, first.Followups)
	assert.Equal(t, 12800.0, first.Amount)
	require.NotNil(t, first.EnrolledAt)
	assert.True(t, first.Enrolled())

	second := leads[1]
	assert.Nil(t, second.LastFollowup)
	assert.Nil(t, second.EnrolledAt)
	require.NotNil(t, second.FirstContact)
}

func TestReadLeads_MissingID(t *testing.T) {
	path := writeFile(t, "leads.csv", "lead_id,name\n,Chen Wei\n")
	_, err := ReadLeads(path)
	assert.ErrorContains(t, err, "missing lead id")
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "1.34%", want: 0.0134},
		{in: "0.0134", want: 0.0134},
		{in: "1.34", want: 0.0134}, // bare number above 1 is a percentage
		{in: "1", want: 1},
		{in: "0", want: 0},
		{in: " 2.5% ", want: 0.025},
		{in: "150", wantErr: true},
		{in: "-0.5", wantErr: true},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseRate(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestParseTime(t *testing.T) {
	for _, in := range []string{
		"2026-08-10 09:30:00",
		"2026-08-10",
		"2026/08/10",
	} {
		got, err := ParseTime(in)
		require.NoError(t, err, in)
		assert.Equal(t, 2026, got.Year())
	}

	_, err := ParseTime("next tuesday")
	assert.Error(t, err)
}
