package restaurant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_ListRestaurants(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "nombre", "direccion", "telefono", "creado_en"}).
			AddRow(1, "Sede Centro", "Cra 7 # 12-30", nil, now).
			AddRow(2, "Sede Norte", nil, "3001234567", now)

		mock.ExpectQuery("FROM restaurante").WillReturnRows(rows)

		list, err := repo.ListRestaurants(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Sede Centro", list[0].Name)
		assert.Nil(t, list[0].Phone)
		assert.Equal(t, "3001234567", *list[1].Phone)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("FROM restaurante").WillReturnError(errors.New("db error"))
		_, err := repo.ListRestaurants(context.Background())
		assert.Error(t, err)
	})
}

func TestRepository_ListTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	cols := []string{"id", "restaurante_id", "numero_mesa", "capacidad", "estado"}

	t.Run("By restaurant", func(t *testing.T) {
		mock.ExpectQuery("FROM mesa\\s+WHERE restaurante_id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(3, 1, 1, 4, "ocupada"))

		id := int64(1)
		tables, err := repo.ListTables(context.Background(), &id)
		require.NoError(t, err)
		require.Len(t, tables, 1)
		assert.Equal(t, TableOccupied, tables[0].Status)
		assert.Equal(t, 4, *tables[0].Capacity)
	})

	t.Run("All", func(t *testing.T) {
		mock.ExpectQuery("FROM mesa\\s+ORDER BY restaurante_id").
			WillReturnRows(sqlmock.NewRows(cols).AddRow(3, 1, 1, nil, "disponible").AddRow(9, 2, 1, 2, "disponible"))

		tables, err := repo.ListTables(context.Background(), nil)
		require.NoError(t, err)
		assert.Len(t, tables, 2)
		assert.Nil(t, tables[0].Capacity)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Deliveries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	cols := []string{"id", "cliente_id", "nombre", "direccion", "ciudad", "referencia", "creado_en"}
	now := time.Now()

	t.Run("By customer", func(t *testing.T) {
		mock.ExpectQuery("WHERE d.cliente_id = \\$1").
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(8, 4, "Ana", "Calle 10 # 4-5", "Bogotá", nil, now))

		list, err := repo.ListDeliveriesByCustomer(context.Background(), 4)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Ana", *list[0].CustomerName)
		assert.Nil(t, list[0].Reference)
	})

	t.Run("By restaurant", func(t *testing.T) {
		mock.ExpectQuery("JOIN carrito c ON c.tipo_pedido_id = tp.id").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(8, 4, nil, "Calle 10 # 4-5", nil, "Torre 2", now))

		list, err := repo.ListDeliveriesByRestaurant(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Torre 2", *list[0].Reference)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("FROM domicilio d").WillReturnError(errors.New("db error"))
		_, err := repo.ListDeliveriesByCustomer(context.Background(), 4)
		assert.Error(t, err)
	})
}

func TestRepository_ActiveIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	statuses := pq.Array([]string{"pendiente", "en preparación"})

	t.Run("Tables", func(t *testing.T) {
		mock.ExpectQuery("SELECT DISTINCT tp.mesa_id").
			WithArgs(int64(1), statuses).
			WillReturnRows(sqlmock.NewRows([]string{"mesa_id"}).AddRow(2).AddRow(5))

		ids, err := repo.ActiveTableIDs(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 5}, ids)
	})

	t.Run("Deliveries", func(t *testing.T) {
		mock.ExpectQuery("SELECT DISTINCT tp.domicilio_id").
			WithArgs(int64(1), statuses).
			WillReturnRows(sqlmock.NewRows([]string{"domicilio_id"}))

		ids, err := repo.ActiveDeliveryIDs(context.Background(), 1)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("SELECT DISTINCT tp.mesa_id").WillReturnError(errors.New("db error"))
		_, err := repo.ActiveTableIDs(context.Background(), 1)
		assert.Error(t, err)
	})
}

func TestRepository_GetTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	cols := []string{"id", "restaurante_id", "numero_mesa", "capacidad", "estado"}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("FROM mesa").
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(3, 2, 5, 4, "ocupada"))

		table, err := repo.GetTable(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, int64(2), table.RestaurantID)
		assert.Equal(t, 5, table.Number)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("FROM mesa").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := repo.GetTable(context.Background(), 99)
		assert.ErrorIs(t, err, ErrTableNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetTableStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE mesa").
			WithArgs("ocupada", int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetTableStatus(context.Background(), 3, TableOccupied))
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectExec("UPDATE mesa").
			WithArgs("disponible", int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetTableStatus(context.Background(), 99, TableAvailable)
		assert.ErrorIs(t, err, ErrTableNotFound)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectExec("UPDATE mesa").WillReturnError(errors.New("db error"))
		assert.Error(t, repo.SetTableStatus(context.Background(), 3, TableOccupied))
	})
}
