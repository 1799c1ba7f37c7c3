package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// LoadError — фатальная ошибка чтения входной таблицы.
// Таблица с такой ошибкой не обрабатывается даже частично.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("table load error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("table load error: %s", e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Table — таблица с именованными столбцами
type Table struct {
	Headers []string
	Rows    [][]string
}

// ParseCSV читает CSV-таблицу: первая строка — заголовки.
// Кодировка определяется автоматически (UTF-8, Windows-1251, Latin-1).
// Любое нарушение формата — *LoadError.
func ParseCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Reason: "failed to read input", Err: err}
	}

	decoded, err := decodeToUTF8(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &LoadError{Reason: "malformed CSV", Err: err}
	}
	if len(records) == 0 {
		return nil, &LoadError{Reason: "empty table: header row is required"}
	}

	return &Table{
		Headers: records[0],
		Rows:    records[1:],
	}, nil
}

// ParseCSVFile читает CSV-таблицу из файла
func ParseCSVFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Reason: fmt.Sprintf("cannot open %s", path), Err: err}
	}
	defer file.Close()
	return ParseCSV(file)
}

// decodeToUTF8 определяет кодировку и приводит данные к UTF-8.
// Кодировки проверяются в порядке приоритета: валидный UTF-8 проходит
// без преобразования, затем пробуются Windows-1251 и Latin-1.
func decodeToUTF8(data []byte) ([]byte, error) {
	if utf8.Valid(data) {
		// Убираем BOM, если есть
		return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}), nil
	}

	for _, cm := range []*charmap.Charmap{charmap.Windows1251, charmap.ISO8859_1} {
		decoded, _, err := transform.Bytes(cm.NewDecoder(), data)
		if err == nil && len(decoded) > 0 && utf8.Valid(decoded) {
			return decoded, nil
		}
	}

	return nil, &LoadError{Reason: "unsupported input encoding"}
}

// ColumnIndex возвращает индекс столбца по имени
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, header := range t.Headers {
		if header == name {
			return i, nil
		}
	}
	return 0, &LoadError{Reason: fmt.Sprintf("column %q not found", name)}
}

// Column возвращает значения столбца по имени; в строках короче заголовка
// недостающие ячейки считаются пустыми
func (t *Table) Column(name string) ([]string, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}

	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values, nil
}

// WithReplacedColumn возвращает копию таблицы, в которой значения одного
// столбца заменены; порядок строк и остальные столбцы не меняются
func (t *Table) WithReplacedColumn(name string, values []string) (*Table, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("replacement column has %d values, table has %d rows", len(values), len(t.Rows))
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		copied := make([]string, len(row))
		copy(copied, row)
		if idx < len(copied) {
			copied[idx] = values[i]
		} else {
			// Короткая строка дополняется до столбца
			for len(copied) <= idx {
				copied = append(copied, "")
			}
			copied[idx] = values[i]
		}
		rows[i] = copied
	}

	return &Table{
		Headers: append([]string(nil), t.Headers...),
		Rows:    rows,
	}, nil
}

// WriteCSV сериализует таблицу в CSV с заголовочной строкой
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
