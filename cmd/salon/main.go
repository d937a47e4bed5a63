/*
main.go - Interactive terminal front end

PURPOSE:
  A request/response terminal menu loop that
  collects strings from one interactive user and calls into the booking
  engine. Strictly single-session; every engine operation runs to
  completion before the next prompt.

MENUS:
  Main menu     -> client path or technician path
  Client        -> log in / create, then book, view own, cancel
  Technician    -> log in / create, then view schedule, add/remove slots

  Invalid input never crashes the loop; the user is re-prompted.

COMMAND-LINE FLAGS:
  -data   Data directory for the flat-file record store (default: ./data)

SEE ALSO:
  - booking/engine.go: All business logic
  - cmd/server: The HTTP surface over the same engine
*/
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/warp/salon-engine/booking"
	"github.com/warp/salon-engine/store/csv"
)

type console struct {
	engine  *booking.Engine
	catalog booking.Catalog
	in      *bufio.Scanner
}

func main() {
	dataDir := flag.String("data", "./data", "data directory for record files")
	flag.Parse()

	store, err := csv.New(*dataDir)
	if err != nil {
		log.Fatalf("Failed to initialize record store: %v", err)
	}
	engine, err := booking.NewEngine(context.Background(), store)
	if err != nil {
		log.Fatalf("Failed to load booking engine: %v", err)
	}

	c := &console{
		engine:  engine,
		catalog: booking.DefaultCatalog(),
		in:      bufio.NewScanner(os.Stdin),
	}
	c.mainMenu()
}

func (c *console) prompt(label string) string {
	fmt.Print(label)
	if !c.in.Scan() {
		// stdin closed: treat as a clean exit rather than looping forever
		fmt.Println("\nGoodbye!")
		os.Exit(0)
	}
	return strings.TrimSpace(c.in.Text())
}

// =============================================================================
// MAIN MENU
// =============================================================================

func (c *console) mainMenu() {
	fmt.Println("\n" + strings.Repeat("=", 40))
	fmt.Println("       NAIL SALON BOOKING SYSTEM ")
	fmt.Println(strings.Repeat("=", 40))

	for {
		fmt.Println("\n--- Main Menu ---")
		fmt.Println("1. I am a Client")
		fmt.Println("2. I am a Technician")
		fmt.Println("3. Exit System")
		switch c.prompt("Enter your choice (1-3): ") {
		case "1":
			if id, ok := c.clientLoginOrCreate(); ok {
				c.clientMenu(id)
			}
		case "2":
			if id, ok := c.technicianLoginOrCreate(); ok {
				c.technicianMenu(id)
			}
		case "3":
			fmt.Println("\nThank you for using the Nail Salon Booking System. Goodbye!")
			return
		case "":
			fmt.Println("Input cannot be empty. Please enter a choice.")
		default:
			fmt.Println("ERROR: Invalid choice. Please enter 1, 2, or 3.")
		}
	}
}

// =============================================================================
// CLIENT PATH
// =============================================================================

func (c *console) clientLoginOrCreate() (booking.ClientID, bool) {
	for {
		fmt.Println("\n--- Client Login/Creation ---")
		fmt.Println("1. Log In with Existing ID")
		fmt.Println("2. Create New Client Account")
		fmt.Println("3. Back to Main Menu")
		switch c.prompt("Enter choice (1-3): ") {
		case "1":
			fmt.Println("Current Clients:")
			for _, cl := range c.engine.Clients() {
				fmt.Printf("  - %s\n", cl)
			}
			raw := c.prompt("Enter your Client ID (e.g., 101): ")
			id, err := strconv.Atoi(raw)
			if err != nil {
				fmt.Println("ERROR: Invalid Client ID. Please try again.")
				continue
			}
			if _, err := c.engine.LookupClient(booking.ClientID(id)); err != nil {
				fmt.Println("ERROR: Invalid Client ID. Please try again.")
				continue
			}
			return booking.ClientID(id), true
		case "2":
			name := c.prompt("Enter your Name: ")
			phone := c.prompt("Enter your Phone Number: ")
			if name == "" || phone == "" {
				fmt.Println("ERROR: Name and Phone cannot be empty.")
				continue
			}
			client, err := c.engine.RegisterClient(context.Background(), name, phone)
			if err != nil {
				fmt.Printf("ERROR: %v\n", err)
				continue
			}
			fmt.Printf("\nSUCCESS: New Client created and saved: %s (ID: %s)\n", client.Name, client.ID.Display())
			return client.ID, true
		case "3":
			return 0, false
		default:
			fmt.Println("ERROR: Invalid choice. Please enter 1, 2, or 3.")
		}
	}
}

func (c *console) clientMenu(clientID booking.ClientID) {
	client, err := c.engine.LookupClient(clientID)
	if err != nil {
		return
	}
	for {
		fmt.Printf("\n--- Welcome, %s (Client Menu) ---\n", client.Name)
		fmt.Println("1. Book New Appointment")
		fmt.Println("2. View My Appointments")
		fmt.Println("3. Cancel Appointment")
		fmt.Println("4. Back to Main Menu")
		switch c.prompt("Enter choice (1-4): ") {
		case "1":
			c.bookFlow(clientID)
		case "2":
			fmt.Println("\n--- Your Appointments ---")
			appts := c.engine.AppointmentsForClient(clientID)
			if len(appts) == 0 {
				fmt.Println("You have no appointments booked.")
				continue
			}
			for _, a := range appts {
				fmt.Println(a)
			}
		case "3":
			raw := c.prompt("Enter Appointment ID to cancel (e.g., 3001): ")
			if raw == "" {
				fmt.Println("ERROR: Appointment ID cannot be empty.")
				continue
			}
			c.cancelFlow(raw)
		case "4":
			fmt.Println("Returning to Main Menu.")
			return
		case "":
			fmt.Println("Input cannot be empty. Please enter a choice.")
		default:
			fmt.Println("ERROR: Invalid choice. Please enter 1, 2, 3, or 4.")
		}
	}
}

func (c *console) bookFlow(clientID booking.ClientID) {
	fmt.Println("\n--- Service Selection ---")
	for _, key := range c.catalog.Keys() {
		svc := c.catalog[key]
		fmt.Printf("%s. %s ($%s)\n", key, svc.Name, svc.Price.StringFixed(2))
	}
	choice := c.prompt("Select a service (1-4): ")
	svc, ok := c.catalog[choice]
	if !ok {
		fmt.Println("ERROR: Invalid service selection.")
		return
	}
	fmt.Printf("Selected: %s for $%s\n", svc.Name, svc.Price.StringFixed(2))

	date := c.prompt("Enter date to check (YYYY-MM-DD, e.g., 2025-11-21): ")
	if date == "" {
		fmt.Println("ERROR: Date cannot be empty.")
		return
	}
	open := c.engine.FindOpenSlots(date)
	fmt.Printf("\n--- Open Slots on %s ---\n", date)
	for _, s := range open {
		fmt.Printf("  %s (ID: %s) at %s\n", s.TechnicianName, s.TechnicianID.Display(), s.Time)
	}
	if len(open) == 0 {
		fmt.Println("No open slots found for that date.")
		return
	}

	rawTech := c.prompt("Enter Technician ID (e.g., 201) for booking: ")
	timeTok := c.prompt("Enter desired time (HH:MM, e.g., 10:00): ")
	if rawTech == "" || timeTok == "" {
		fmt.Println("ERROR: Technician ID and Time cannot be empty.")
		return
	}
	techID, err := strconv.Atoi(rawTech)
	if err != nil {
		fmt.Println("ERROR: Invalid Client or Technician ID.")
		return
	}

	appt, err := c.engine.BookAppointment(context.Background(),
		clientID, booking.TechnicianID(techID), date, timeTok, svc.Name, svc.Price)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return
	}
	fmt.Println("\nSUCCESS: Booking Successful!")
	fmt.Println(appt)
}

func (c *console) cancelFlow(raw string) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Printf("ERROR: Appointment ID %s not found or already canceled.\n", raw)
		return
	}
	appt, restored, err := c.engine.CancelAppointment(context.Background(), booking.AppointmentID(id))
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return
	}
	fmt.Printf("SUCCESS: Appointment %d canceled.\n", int(appt.ID))
	if restored {
		fmt.Printf("Technician %s's slot on %s at %s restored.\n", appt.Technician.Name, appt.Date, appt.Time)
	} else {
		fmt.Printf("Technician %s's slot on %s at %s was already available (no restoration needed).\n",
			appt.Technician.Name, appt.Date, appt.Time)
	}
}

// =============================================================================
// TECHNICIAN PATH
// =============================================================================

func (c *console) technicianLoginOrCreate() (booking.TechnicianID, bool) {
	for {
		fmt.Println("\n--- Technician Login/Creation ---")
		fmt.Println("1. Log In with Existing ID")
		fmt.Println("2. Create New Technician Profile")
		fmt.Println("3. Back to Main Menu")
		switch c.prompt("Enter choice (1-3): ") {
		case "1":
			fmt.Println("Current Technicians:")
			for _, t := range c.engine.Technicians() {
				fmt.Printf("  - %s\n", t)
			}
			raw := c.prompt("Enter your Technician ID (e.g., 201): ")
			id, err := strconv.Atoi(raw)
			if err != nil {
				fmt.Println("ERROR: Invalid Technician ID. Please try again.")
				continue
			}
			if _, err := c.engine.LookupTechnician(booking.TechnicianID(id)); err != nil {
				fmt.Println("ERROR: Invalid Technician ID. Please try again.")
				continue
			}
			return booking.TechnicianID(id), true
		case "2":
			name := c.prompt("Enter your Name: ")
			if name == "" {
				fmt.Println("ERROR: Name cannot be empty.")
				continue
			}
			tech, err := c.engine.RegisterTechnician(context.Background(), name)
			if err != nil {
				fmt.Printf("ERROR: %v\n", err)
				continue
			}
			fmt.Printf("\nSUCCESS: New Technician created and saved: %s (ID: %s)\n", tech.Name, tech.ID.Display())
			return tech.ID, true
		case "3":
			return 0, false
		default:
			fmt.Println("ERROR: Invalid choice. Please enter 1, 2, or 3.")
		}
	}
}

func (c *console) technicianMenu(techID booking.TechnicianID) {
	tech, err := c.engine.LookupTechnician(techID)
	if err != nil {
		return
	}
	for {
		fmt.Printf("\n--- Welcome, %s (Technician Menu) ---\n", tech.Name)
		fmt.Println("1. View My Schedule")
		fmt.Println("2. Add Availability Slot")
		fmt.Println("3. Remove Availability Slot")
		fmt.Println("4. Back to Main Menu")
		switch c.prompt("Enter choice (1-4): ") {
		case "1":
			c.showSchedule(tech)
		case "2":
			date := c.prompt("Enter date to add (YYYY-MM-DD): ")
			timeTok := c.prompt("Enter time to add (HH:MM, e.g., 15:30): ")
			if date == "" || timeTok == "" {
				fmt.Println("ERROR: Date and Time cannot be empty.")
				continue
			}
			if err := c.engine.TechnicianAddSlot(techID, date, timeTok); err != nil {
				fmt.Printf("ERROR: %v\n", err)
				continue
			}
			fmt.Printf("SUCCESS: Slot %s @ %s added for %s.\n", date, timeTok, tech.Name)
		case "3":
			date := c.prompt("Enter date to remove from (YYYY-MM-DD): ")
			timeTok := c.prompt("Enter time to remove (HH:MM): ")
			if date == "" || timeTok == "" {
				fmt.Println("ERROR: Date and Time cannot be empty.")
				continue
			}
			if err := c.engine.TechnicianRemoveSlot(techID, date, timeTok); err != nil {
				fmt.Printf("ERROR: %v\n", err)
				continue
			}
			fmt.Printf("SUCCESS: Slot %s @ %s removed for %s.\n", date, timeTok, tech.Name)
		case "4":
			fmt.Println("Returning to Main Menu.")
			return
		case "":
			fmt.Println("Input cannot be empty. Please enter a choice.")
		default:
			fmt.Println("ERROR: Invalid choice. Please enter 1, 2, 3, or 4.")
		}
	}
}

func (c *console) showSchedule(tech *booking.Technician) {
	fmt.Printf("\n--- %s's Schedule & Availability ---\n", tech.Name)

	fmt.Println("\nCurrent Availability Slots (Open for Booking):")
	dates := tech.Availability.Dates()
	if len(dates) == 0 {
		fmt.Println("  No future availability set.")
	}
	for _, d := range dates {
		var times []string
		for t := range tech.Availability.OpenTimes(d) {
			times = append(times, t)
		}
		fmt.Printf("  %s: %s\n", d, strings.Join(times, ", "))
	}

	fmt.Println("\nBooked/Past Appointments:")
	found := false
	for _, d := range tech.Schedule.Dates() {
		appts := tech.Schedule.AppointmentsOn(d)
		if len(appts) == 0 {
			continue
		}
		fmt.Printf("  --- %s ---\n", d)
		for _, a := range appts {
			fmt.Printf("    %s | Client: %s (ID: %s) | Status: %s\n",
				a.Time, a.Client.Name, a.Client.ID.Display(), a.Status)
			found = true
		}
	}
	if !found {
		fmt.Println("No appointments currently booked.")
	}
}
