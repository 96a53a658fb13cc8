package db

import (
	"errors"
	"fmt"

	"github.com/agencyproject26-sys/final-crm-mulia-kasih-logistik-sub001/internal/models"
	"gorm.io/gorm"
)

// Seed inserts baseline master data for local development. Rows are matched
// by name so running it twice is harmless.
func Seed(conn *gorm.DB) error {
	customers := []models.Customer{
		{Name: "PT Sinar Samudra", CompanyType: "PT", City: "Jakarta Utara", Phone: "021-4301234"},
		{Name: "CV Berkah Jaya", CompanyType: "CV", City: "Surabaya"},
	}
	for _, c := range customers {
		if err := firstOrCreate(conn, &models.Customer{}, "name = ?", c.Name, &c); err != nil {
			return err
		}
	}

	vendors := []models.Vendor{
		{Name: "Depo Tanjung Priok", ServiceType: "depo"},
		{Name: "EMKL Nusantara", ServiceType: "customs"},
	}
	for _, v := range vendors {
		if err := firstOrCreate(conn, &models.Vendor{}, "name = ?", v.Name, &v); err != nil {
			return err
		}
	}

	trucks := []models.Truck{
		{PlateNumber: "B 9123 KX", TruckType: "trailer 40ft", Brand: "Hino", Year: 2019},
		{PlateNumber: "B 9456 KY", TruckType: "trailer 20ft", Brand: "Mitsubishi", Year: 2021},
	}
	for _, t := range trucks {
		t.Normalize()
		if err := firstOrCreate(conn, &models.Truck{}, "plate_number = ?", t.PlateNumber, &t); err != nil {
			return err
		}
	}
	return nil
}

func firstOrCreate(conn *gorm.DB, probe any, query, arg string, row any) error {
	err := conn.Where(query, arg).First(probe).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("seed lookup %s: %w", arg, err)
	}
	if err := conn.Create(row).Error; err != nil {
		return fmt.Errorf("seed %s: %w", arg, err)
	}
	return nil
}
