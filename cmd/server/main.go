package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"crane-program-api/config"
	"crane-program-api/internal/admin"
	"crane-program-api/internal/auth"
	"crane-program-api/internal/backup"
	"crane-program-api/internal/file"
	"crane-program-api/internal/logs"
	"crane-program-api/internal/lookup"
	"crane-program-api/internal/permission"
	"crane-program-api/internal/program"
	"crane-program-api/internal/util"
)

func main() {
	cfg := config.LoadConfig()

	dsn := "host=" + cfg.DBHost +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" port=" + cfg.DBPort +
		" sslmode=disable"

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&auth.User{},
		&lookup.Process{},
		&lookup.ProductionLine{},
		&lookup.VehicleModel{},
		&permission.UserPermission{},
		&program.Program{},
		&program.ProgramRelation{},
		&file.ProgramFile{},
		&file.ProgramVersion{},
		&logs.SystemLog{},
		&backup.BackupRecord{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	if err := util.EnsureDir(cfg.UploadDir); err != nil {
		log.Fatal("Failed to create upload directory:", err)
	}
	if err := util.EnsureDir(cfg.BackupDir); err != nil {
		log.Fatal("Failed to create backup directory:", err)
	}

	if err := seedAdmin(db); err != nil {
		log.Fatal("Failed to seed admin account:", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	logService := &logs.LogService{DB: db}

	authService := &auth.AuthService{DB: db, CFG: &cfg}
	auth.RegisterRoutes(r, authService, logService)

	lookupService := &lookup.LookupService{DB: db}
	lookup.RegisterRoutes(r, lookupService)

	permissionService := &permission.PermissionService{DB: db}
	permission.RegisterRoutes(r, permissionService, logService)

	programService := &program.ProgramService{DB: db}
	program.RegisterRoutes(r, programService, logService)

	fileService := &file.FileService{DB: db, CFG: &cfg}
	file.RegisterRoutes(r, fileService, logService)

	backupService := &backup.BackupService{DB: db, CFG: &cfg}
	backup.RegisterRoutes(r, backupService, logService)

	adminService := &admin.AdminService{DB: db, CFG: &cfg}
	admin.RegisterRoutes(r, adminService)

	logs.RegisterRoutes(r, logService)

	log.Printf("Starting server on 0.0.0.0:%s ...", cfg.ServerPort)
	log.Fatal(r.Run("0.0.0.0:" + cfg.ServerPort))
}

// seedAdmin creates the initial admin account on an empty user table so a
// fresh deployment can be logged into. The password must be changed after
// first login.
func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&auth.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := util.HashPassword("admin123456")
	if err != nil {
		return err
	}
	admin := auth.User{
		EmployeeID: "admin001",
		EmployeeNo: "admin001",
		Name:       "System Administrator",
		Department: "IT",
		Role:       "admin",
		Password:   hashed,
		Status:     "active",
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Seeded initial admin account admin001")
	return nil
}
