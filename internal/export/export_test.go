package export

import (
	"bytes"
	"testing"
	"time"

	"agendamento/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbook(t *testing.T) {
	data, err := Workbook([]*model.Booking{
		{Program: model.ProgramFIES, Name: "Maria Souza", CPF: "12345678901", Phone: "11987654321", Date: "2026-02-02", Time: "11:00"},
		{Program: model.ProgramPROUNI, Name: "João Lima", CPF: "98765432100", Phone: "", Date: "2026-02-20", Time: "18:00"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Programa", "Nome", "CPF", "Telefone Celular", "Data do agendamento", "Horário do agendamento"}, rows[0])
	assert.Equal(t, []string{"FIES", "Maria Souza", "123.456.789-01", "(11) 98765-4321", "02/02/2026", "11:00"}, rows[1])
	assert.Equal(t, "987.654.321-00", rows[2][2])
	assert.Equal(t, "", rows[2][3])
	assert.Equal(t, "20/02/2026", rows[2][4])

	for col, want := range map[string]float64{"A": 15, "B": 40, "C": 20, "F": 20} {
		width, err := f.GetColWidth(SheetName, col)
		require.NoError(t, err)
		assert.Equal(t, want, width, col)
	}
}

func TestWorkbook_Empty(t *testing.T) {
	_, err := Workbook(nil)
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "02/02/2026", FormatDate("2026-02-02"))
	assert.Equal(t, "amanhã", FormatDate("amanhã"))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "agendamentos_2026-02-02.xlsx", Filename(time.Date(2026, 2, 2, 23, 0, 0, 0, time.UTC)))
}
